package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/lorrc/employee-identifier/internal/adapters/primary/http"
	mw "github.com/lorrc/employee-identifier/internal/adapters/primary/http/middleware"
	"github.com/lorrc/employee-identifier/internal/config"
	"github.com/lorrc/employee-identifier/internal/core/services"
	"github.com/lorrc/employee-identifier/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.ServiceName = cfg.App.Name
	logCfg.Environment = cfg.App.Environment
	logger := logging.NewLogger(logCfg)

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// 3. Initialize Rate Limiters
	var generalRateLimiter, uploadRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		general := mw.DefaultRateLimiterConfig()
		general.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		general.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(general)
		defer generalRateLimiter.Stop()

		upload := mw.UploadRateLimiterConfig()
		upload.RequestsPerSecond = cfg.RateLimit.UploadRPS
		upload.BurstSize = cfg.RateLimit.UploadBurst
		uploadRateLimiter = mw.NewRateLimiter(upload)
		defer uploadRateLimiter.Stop()
	}

	// 4. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger, cfg.ErrorHandling.ShowDetails)

	// Services (Core)
	recordParser := services.NewRecordParser(logger)
	analyzer := services.NewCollaborationAnalyzer(logger, nil)
	collaborationService := services.NewCollaborationService(recordParser, analyzer, logger)

	// Handlers (Primary Adapters)
	collaborationHandler := httpAdapter.NewCollaborationHandler(collaborationService, httpAdapter.UploadConfig{
		FormField:      cfg.Upload.FormField,
		MaxUploadBytes: cfg.Upload.MaxUploadBytes,
	}, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(cfg.App.Version)

	// 5. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders:   []string{mw.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Banner and health probes (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Uploads are parsed in full, so they get a stricter limit
		r.Group(func(r chi.Router) {
			if uploadRateLimiter != nil {
				r.Use(uploadRateLimiter.Middleware)
			}
			r.Route("/employees", collaborationHandler.RegisterRoutes)
		})
	})

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
