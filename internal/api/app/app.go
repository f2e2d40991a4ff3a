package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/soapbox/internal/api/http"
	"github.com/aussiebroadwan/soapbox/internal/api/service"
	"github.com/aussiebroadwan/soapbox/internal/api/store/drivers/sqlite"
	"github.com/aussiebroadwan/soapbox/internal/metrics"
	"github.com/aussiebroadwan/soapbox/pkg/cryptox"
	"github.com/aussiebroadwan/soapbox/pkg/httpx"
	"github.com/aussiebroadwan/soapbox/pkg/jwtx"
	"github.com/aussiebroadwan/soapbox/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application holds the API server and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       *sqlite.Store
	codec    *jwtx.Codec
	hasher   *cryptox.PasswordHasher
	metrics  metrics.Recorder
	audit    *slogx.AuditLogger
	auditLog io.Closer

	// Services
	sessionService *service.SessionService
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// NewLogger builds the process logger from cfg.
func NewLogger(cfg Config) *slog.Logger {
	return slogx.New(slogx.Config{
		Service: "soapbox-api",
		Version: BuildVersion,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:    cfg,
		logger: NewLogger(cfg),
	}
	if cfg.EphemeralSecret {
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initSecurity(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router, mostly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("soapbox api starting", "port", app.cfg.Port, "version", BuildVersion)

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
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeResources()
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
	app.logger.Info("shutting down soapbox api...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeResources(); err != nil {
		return err
	}

	app.logger.Info("soapbox api stopped")
	return nil
}

func (app *Application) closeResources() error {
	if app.auditLog != nil {
		if err := app.auditLog.Close(); err != nil {
			app.logger.Error("error closing audit log", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return err
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initSecurity sets up the token codec, password hashing and the audit log.
func (app *Application) initSecurity() error {
	codec, err := jwtx.NewCodec([]byte(app.cfg.JWTSecret), jwtx.WithIssuer(app.cfg.JWTIssuer))
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	hasher, err := NewPasswordHasher(app.cfg)
	if err != nil {
		return err
	}
	app.hasher = hasher

	f, err := os.OpenFile(app.cfg.AuditLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	app.auditLog = f
	app.audit = slogx.NewAuditLogger(io.MultiWriter(f, os.Stdout))

	app.metrics = metrics.Init(app.cfg.MetricsEnabled)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Credentials: app.db.Users(),
		Passwords:   app.hasher,
		Tokens:      app.codec,
		Audit:       app.audit,
		Metrics:     app.metrics,
		AccessTTL:   app.cfg.AccessTokenTTL,
		RefreshTTL:  app.cfg.RefreshTokenTTL,
	}
	app.userService = &service.UserService{Store: app.db, Passwords: app.hasher}
	app.postService = &service.PostService{Store: app.db}
	app.commentService = &service.CommentService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(httpapi.Options{
		Verifier:     app.codec,
		Store:        app.db,
		Logger:       app.logger,
		Metrics:      app.metrics,
		BuildVersion: BuildVersion,
		Cookies:      httpx.CookieConfig{Secure: app.cfg.CookieSecure},
		CORSOrigins:  app.cfg.CORSOrigins,
		TrustProxy:   app.cfg.TrustProxy,
	})

	// Wire services to router
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.PostService = app.postService
	router.CommentService = app.commentService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
