package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/crewlink/identity/internal/identity/http"
	"github.com/crewlink/identity/internal/identity/mail"
	"github.com/crewlink/identity/internal/identity/service"
	"github.com/crewlink/identity/internal/identity/store"
	"github.com/crewlink/identity/internal/identity/store/drivers/sqlite"
	"github.com/crewlink/identity/pkg/cryptox"
	"github.com/crewlink/identity/pkg/jwtx"
	"github.com/crewlink/identity/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the identity service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer jwtx.Signer
	keys   *jwtx.KeySet

	authService *service.AuthService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "identity-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, keys, err := initSessionKeys(app.logger)
	if err != nil {
		return nil, err
	}
	app.signer = signer
	app.keys = keys

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("identity service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down identity service...")

	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("identity service stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations. The pragmas
// ride on the DSN so every pooled connection gets them.
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		app.cfg.DatabaseFile,
	)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices wires the auth service with its notifier. Without an SMTP
// host configured, codes are logged instead of delivered.
func (app *Application) initServices() {
	var notifier service.Notifier
	if app.cfg.SMTP.Host != "" {
		notifier = mail.NewSMTPMailer(app.cfg.SMTP)
		app.logger.Info("smtp delivery configured", "host", app.cfg.SMTP.Host, "port", app.cfg.SMTP.Port)
	} else {
		notifier = mail.NewLogMailer(app.logger)
		app.logger.Warn("smtp not configured, codes will be logged instead of delivered")
	}

	app.authService = &service.AuthService{
		Store:      app.db,
		Signer:     app.signer,
		Notifier:   notifier,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
		CodeTTL:    app.cfg.CodeTTL,
	}
}

// initHTTP builds the router and HTTP server.
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierEdDSA(app.keys, app.cfg.Issuer)

	app.router = httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)
	app.router.AuthService = app.authService
	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
