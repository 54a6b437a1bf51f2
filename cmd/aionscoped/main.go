// Command aionscoped is the aionscope scoring service.
// It serves the REST API over the scoring engine and the score history,
// the signed snapshot webhook, and a health check.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/aionscope/aionscope/internal/api"
	"github.com/aionscope/aionscope/internal/ingestion"
	"github.com/aionscope/aionscope/internal/platform"
	"github.com/aionscope/aionscope/internal/roster"
	"github.com/aionscope/aionscope/internal/webhook"
	"github.com/aionscope/aionscope/pkg/config"
	"github.com/aionscope/aionscope/pkg/report"
)

func main() {
	if err := run(); err != nil {
		slog.Error("aionscoped exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	envErr := godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.logLevel()}))
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("loading .env", "error", envErr)
	}

	tables := config.DefaultConfig()
	if cfg.ConfigPath != "" {
		if tables, err = config.Load(cfg.ConfigPath); err != nil {
			return err
		}
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := platform.AutoMigrate(db); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeStorage() }()

	// Initialize services
	rosterSvc := roster.NewService(db)
	generator := report.NewGenerator(tables.Ledger, tables.Scoring)
	ingestionSvc := ingestion.NewService(rosterSvc, storage, generator, logger).WithWorkers(cfg.RescoreWorkers)
	handler := api.NewHandler(rosterSvc, ingestionSvc, generator, api.NewSnapshotCache(cfg.CacheSize), logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	if cfg.WebhookSecret != "" {
		mux.Handle("POST "+api.WebhookPrefix+"snapshot", webhook.NewHandler([]byte(cfg.WebhookSecret), ingestionSvc, logger))
		logger.Info("snapshot webhook enabled", "path", api.WebhookPrefix+"snapshot")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.RequestLog(logger)(api.CORS(api.APIKeyAuth(cfg.APIKey)(mux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting aionscoped", "port", cfg.Port, "storage", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
