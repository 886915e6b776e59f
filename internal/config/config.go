// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	// SMTP transport for transactional mail.
	SMTPHost     string `env:"EMAIL_HOST"`
	SMTPPort     int    `env:"EMAIL_PORT" envDefault:"587"`
	SMTPUser     string `env:"EMAIL_USER"`
	SMTPPassword string `env:"EMAIL_PASS"`
	EmailFrom    string `env:"EMAIL_FROM"`
	AdminEmail   string `env:"ADMIN_EMAIL"`

	FrontendURL string `env:"FRONTEND_URL" envDefault:"https://www.zetounlabs.com"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
