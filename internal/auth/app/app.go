package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loomchat/loom/internal/auth/directory"
	"github.com/loomchat/loom/internal/auth/directory/local"
	"github.com/loomchat/loom/internal/auth/directory/remote"
	httpapi "github.com/loomchat/loom/internal/auth/http"
	"github.com/loomchat/loom/internal/auth/notify"
	"github.com/loomchat/loom/internal/auth/service"
	"github.com/loomchat/loom/internal/auth/store"
	"github.com/loomchat/loom/internal/auth/store/drivers/sqlite"
	"github.com/loomchat/loom/pkg/jwtx"
	"github.com/loomchat/loom/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	signer    *jwtx.HS256
	directory directory.Directory
	notifier  notify.Notifier

	// Services
	tokenService        *service.TokenService
	twoFactorService    *service.TwoFactorService
	authService         *service.AuthService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	signer, err := jwtx.NewHS256(cfg.JWTSecret, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initDirectory()
	app.initNotifier()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	// Start housekeeping service
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
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

// initDirectory picks where account records live: the external user service
// when one is configured, otherwise the local store.
func (app *Application) initDirectory() {
	if app.cfg.UserServiceURL != "" {
		app.directory = remote.New(app.cfg.UserServiceURL)
		app.logger.Info("using remote user directory", "url", app.cfg.UserServiceURL)
		return
	}
	app.directory = local.New(app.db)
	app.logger.Info("using local user directory")
}

// initNotifier wires outgoing mail to the common service, or to the log
// when no delivery endpoint is configured.
func (app *Application) initNotifier() {
	if app.cfg.CommonServiceURL != "" {
		app.notifier = notify.NewClient(app.cfg.CommonServiceURL)
		app.logger.Info("email delivery enabled", "url", app.cfg.CommonServiceURL)
		return
	}
	app.notifier = notify.Log{}
	app.logger.Info("email delivery disabled, messages will be logged")
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Store:      app.db,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
	}

	app.twoFactorService = &service.TwoFactorService{
		Directory: app.directory,
		Issuer:    app.cfg.TwoFactorIssuer,
	}

	app.authService = &service.AuthService{
		Directory:       app.directory,
		Tokens:          app.tokenService,
		TwoFactor:       app.twoFactorService,
		Notifier:        app.notifier,
		FrontendURL:     app.cfg.FrontendURL,
		ResetTTL:        app.cfg.ResetTokenTTL,
		VerificationTTL: app.cfg.VerificationTokenTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
