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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	apierrors "github.com/Alexico1969/project-stem-grader/internal/errors"
	"github.com/Alexico1969/project-stem-grader/internal/exporter"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	customMiddleware "github.com/Alexico1969/project-stem-grader/internal/middleware"
	"github.com/Alexico1969/project-stem-grader/internal/services"
	"github.com/Alexico1969/project-stem-grader/internal/sheets"
	handlers "github.com/Alexico1969/project-stem-grader/internal/transport/http"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts"
)

const AppName = "Project STEM Grader"

// Version follows the contracts package so all surfaces report the same.
var Version = contracts.Version

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Paths            *config.Paths
	Router           *chi.Mux
	Server           *http.Server
	GradebookService *services.GradebookService
	Logger           *slog.Logger
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	paths, err := config.GetPaths(cfg.Gradebook)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	sink, err := buildExportSink(ctx, cfg, paths, logger)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewGradebookService(ctx, cfg.Gradebook, paths, sink, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load gradebook: %w", err)
	}

	app := &Application{
		Config:           cfg,
		Paths:            paths,
		GradebookService: svc,
		Logger:           logger,
	}

	app.setupRouter()

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// buildExportSink selects the configured export destination. Sheets is the
// default; when it is disabled exports land in the local exports directory.
func buildExportSink(ctx context.Context, cfg *config.Config, paths *config.Paths, logger *slog.Logger) (services.ExportSink, error) {
	if !cfg.Sheets.Enabled {
		logger.Info("Sheets export disabled, using local export sink",
			slog.String("exports_dir", paths.ExportsDir))
		return exporter.NewLocalSink(paths, logger), nil
	}

	sink, err := sheets.NewExporter(ctx, cfg.Sheets, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sheets exporter: %w", err)
	}
	return sink, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	// Metrics endpoint stays outside the middleware group
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Metrics)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		if a.Config.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.RateLimit.RPS,
				a.Config.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		errorHandler := apierrors.NewErrorHandler(a.Logger)
		gradebookHandler := handlers.NewGradebookHandler(a.GradebookService, a.Logger, errorHandler)
		r.Mount("/api", gradebookHandler.Routes())
	})

	healthHandler := handlers.NewHealthHandler()
	r.Get("/healthz", healthHandler.HealthCheck)

	a.Router = r
}

// Start begins serving HTTP requests. It returns once the listener is
// running; server errors cancel the provided context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting server",
		slog.Int("port", a.Config.Server.Port),
		slog.String("grades_file", a.Paths.GradesFile),
		slog.String("exports_dir", a.Paths.ExportsDir))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Failed to close log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application stopped")
	return nil
}

// Run starts the application and blocks until a shutdown signal arrives.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.Info("Context cancelled, shutting down")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer stopCancel()

	return a.Stop(stopCtx)
}
