// cmd/api is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	formationsapi "github.com/zetoun-labs/formations-api"
	"github.com/zetoun-labs/formations-api/internal/config"
	"github.com/zetoun-labs/formations-api/internal/database"
	"github.com/zetoun-labs/formations-api/internal/handler"
	"github.com/zetoun-labs/formations-api/internal/mail"
	"github.com/zetoun-labs/formations-api/internal/repository"
	"github.com/zetoun-labs/formations-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("fatal", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// ── 1. Connect to PostgreSQL and apply migrations ─────────────────────
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to postgres")

	migrationsFS, err := fs.Sub(formationsapi.MigrationsFS, "migrations")
	if err != nil {
		return err
	}
	if err := database.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		return err
	}
	log.Info("migrations applied")

	// ── 2. Wire up layers ─────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	contactRepo := repository.NewContactRepository(pool)

	transport := mail.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	dispatcher := mail.NewDispatcher(transport, cfg.AdminEmail, cfg.FrontendURL, log)

	userSvc := service.NewUserService(userRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	courseSvc := service.NewCourseService(courseRepo, log)
	enrollmentSvc := service.NewEnrollmentService(userRepo, courseRepo, enrollmentRepo, log)
	invoiceSvc := service.NewInvoiceService(userRepo, courseRepo, invoiceRepo, enrollmentSvc, dispatcher, log)
	contactSvc := service.NewContactService(contactRepo, dispatcher, log)

	authHandler := handler.NewAuthHandler(userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	invoiceHandler := handler.NewInvoiceHandler(invoiceSvc)
	contactHandler := handler.NewContactHandler(contactSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(handler.Logger(log))
	r.Use(handler.CORS)

	r.Get("/health", handler.HealthCheck)

	withAuth := handler.Auth(cfg.JWTSecret, log)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.With(withAuth).Get("/profile", authHandler.Profile)
	})

	r.Route("/formations", func(r chi.Router) {
		r.Get("/", courseHandler.List)
		r.Get("/{id}", courseHandler.Get)
		r.With(withAuth).Post("/", courseHandler.Create)
	})

	r.Route("/enrollments", func(r chi.Router) {
		r.Use(withAuth)
		r.Post("/", enrollmentHandler.Enroll)
		r.Get("/", enrollmentHandler.List)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Use(withAuth)
		r.Post("/", invoiceHandler.Create)
		r.Get("/", invoiceHandler.List)
		r.Get("/{id}", invoiceHandler.Get)
		r.Patch("/{id}/status", invoiceHandler.UpdateStatus)
	})

	r.Post("/contact", contactHandler.Create)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
