package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/aionscope/aionscope/internal/ingestion"
)

type daemonConfig struct {
	Port          string `env:"PORT" envDefault:"8080"`
	DatabaseURL   string `env:"DATABASE_URL" envDefault:"postgres://localhost:5432/aionscope?sslmode=disable"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"true"`
	APIKey        string `env:"API_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"` // enables the signed snapshot push endpoint
	ConfigPath    string `env:"AIONSCOPE_CONFIG"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	StorageBackend   string `env:"STORAGE_BACKEND" envDefault:"local"`
	LocalStoragePath string `env:"LOCAL_STORAGE_PATH" envDefault:"/tmp/aionscope-data"`
	GCSBucket        string `env:"GCS_BUCKET"`
	S3Bucket         string `env:"S3_BUCKET"`
	S3Prefix         string `env:"S3_PREFIX"`
	S3Region         string `env:"S3_REGION"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3AccessKey      string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`

	CacheSize      int `env:"SNAPSHOT_CACHE_SIZE" envDefault:"20"`
	RescoreWorkers int `env:"RESCORE_WORKERS" envDefault:"4"`
}

func loadConfig() (daemonConfig, error) {
	var cfg daemonConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c daemonConfig) logLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// storageCloser releases backend resources. Local and S3 storage need none.
type storageCloser func() error

func newStorage(ctx context.Context, cfg daemonConfig) (ingestion.StorageClient, storageCloser, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.StorageBackend) {
	case "", "local":
		if err := os.MkdirAll(cfg.LocalStoragePath, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
		return ingestion.NewLocalStorage(cfg.LocalStoragePath), noop, nil
	case "gcs":
		s, err := ingestion.NewGCSStorage(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "s3":
		s, err := ingestion.NewS3Storage(ctx, ingestion.S3Config{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORAGE_BACKEND %q (want local, gcs or s3)", cfg.StorageBackend)
	}
}
