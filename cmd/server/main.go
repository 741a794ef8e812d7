package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hjo3-cse40/SlugConnect/internal/router"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/hjo3-cse40/SlugConnect/pkg/config"
	"github.com/hjo3-cse40/SlugConnect/pkg/firebase"
	"github.com/hjo3-cse40/SlugConnect/pkg/logger"
	"github.com/hjo3-cse40/SlugConnect/pkg/metrics"
	"github.com/hjo3-cse40/SlugConnect/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(logger.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: !cfg.IsProduction(),
	})
	defer zlog.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	if err := config.Migrate(db.SQL); err != nil {
		zlog.Fatal("Failed to auto migrate models", zap.Error(err))
	}

	// Firebase sign-in is optional
	var verifier services.TokenVerifier
	authClient, err := firebase.NewAuthClient(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case err == nil:
		verifier = authClient
		zlog.Info("Firebase auth client initialized")
	case errors.Is(err, firebase.ErrNotConfigured):
		zlog.Info("FIREBASE_CREDENTIALS_PATH not set, Firebase sign-in disabled")
	default:
		zlog.Fatal("Failed to initialize Firebase", zap.Error(err))
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, zlog, m)
	if err := router.SetupRoutes(e, router.Deps{
		Config:        cfg,
		SQL:           db.SQL,
		Mongo:         db.Mongo,
		TokenVerifier: verifier,
		Metrics:       m,
		Logger:        zlog,
	}); err != nil {
		zlog.Fatal("Failed to set up routes", zap.Error(err))
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zlog.Info("Metrics server listening", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		zlog.Info("API server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("API server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("API server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Metrics server shutdown failed", zap.Error(err))
	}
}
