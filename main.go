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

	"screen-ai/api"
	"screen-ai/config"
	"screen-ai/database"
	"screen-ai/metrics"
	"screen-ai/services"
	"screen-ai/storage"
	"screen-ai/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load error: %v", err)
	}

	logging, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()
	zap.ReplaceGlobals(logging)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Datenbank
	db, err := database.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to connect to database", zap.Error(err))
	}
	logging.Info("Running database auto-migration...")
	if err := database.Migrate(db); err != nil {
		logging.Fatal("Auto-migration failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logging.Fatal("Failed to access connection pool", zap.Error(err))
	}
	defer sqlDB.Close()
	metrics.StartDBStatsCollector(ctx, sqlDB, 15*time.Second)

	// Tracing
	shutdownTracing, err := tracing.Init(ctx, cfg, logging)
	if err != nil {
		logging.Fatal("Tracing setup failed", zap.Error(err))
	}

	// Blob-Store und Services
	store, err := storage.New(ctx, cfg)
	if err != nil {
		logging.Fatal("Blob store setup failed", zap.Error(err))
	}
	svc := services.New(cfg, db, logging, store)

	if cfg.CreateAdminOnStartup {
		if err := svc.Auth.EnsureAdmin(ctx, cfg); err != nil {
			logging.Fatal("Admin bootstrap failed", zap.Error(err))
		}
	}

	router := api.NewServer(cfg, db, logging, svc, metrics.NewRegistry()).Router()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		logging.Info("Starting server", zap.String("port", cfg.HTTPPort), zap.String("app", cfg.AppName))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logging.Warn("Tracing shutdown failed", zap.Error(err))
	}
	logging.Info("Server stopped")
}
