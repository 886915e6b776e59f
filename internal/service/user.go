package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zetoun-labs/formations-api/internal/model"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password; the two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("incorrect email or password")

const bcryptCost = 10

// UserService handles account creation and credential verification.
type UserService struct {
	users    UserStore
	secret   []byte
	tokenTTL time.Duration
	log      *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users UserStore, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *UserService {
	return &UserService{users: users, secret: []byte(jwtSecret), tokenTTL: tokenTTL, log: log}
}

// Signup creates an account and returns it with a signed token.
func (s *UserService) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if len(req.Name) < 2 {
		return nil, fmt.Errorf("name must contain at least 2 characters")
	}
	if !isValidEmail(req.Email) {
		return nil, fmt.Errorf("email is not a valid address")
	}
	if len(req.Password) < 6 {
		return nil, fmt.Errorf("password must contain at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Name, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.log.Warn("signup with existing email", zap.String("email", req.Email))
		}
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login verifies the credentials and returns the account with a signed token.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn("login with unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.log.Warn("login with wrong password", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Profile returns the account behind a verified identity.
func (s *UserService) Profile(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *UserService) issueToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
