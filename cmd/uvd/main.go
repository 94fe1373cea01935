package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/uvwatch/uv-forecast-service/internal/adapter/httpapi"
	kafkaadapter "github.com/uvwatch/uv-forecast-service/internal/adapter/kafka"
	"github.com/uvwatch/uv-forecast-service/internal/adapter/openuv"
	"github.com/uvwatch/uv-forecast-service/internal/config"
	"github.com/uvwatch/uv-forecast-service/internal/observability"
	"github.com/uvwatch/uv-forecast-service/internal/pipeline"
	"github.com/uvwatch/uv-forecast-service/internal/store"
)

func main() {
	// Local development convenience; absent .env files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := openuv.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamAPIKey, cfg.UpstreamTimeout, metrics)

	memory := store.NewMemory()
	var snapshots interface {
		pipeline.Store
		httpapi.SnapshotSource
	} = memory
	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		snapshots = store.NewRedisMirror(memory, client, cfg.RedisSnapshotTTL, logger)
		logger.Info("redis mirror enabled", "addr", cfg.RedisAddr, "ttl", cfg.RedisSnapshotTTL)
	}

	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	builder := pipeline.NewSnapshotBuilder(cfg.ForecastWindow, cfg.DisplayTimezone)
	refresher := pipeline.NewRefresher(fetcher, builder, snapshots, publisher, cfg.Locations, cfg.RefreshInterval, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, snapshots, refresher, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
