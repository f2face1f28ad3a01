package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/covidtracking"
	httpadapter "github.com/couchcryptid/covid-tracker-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/covid-tracker-service/internal/adapter/kafka"
	"github.com/couchcryptid/covid-tracker-service/internal/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/config"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/couchcryptid/covid-tracker-service/internal/observability"
	"github.com/couchcryptid/covid-tracker-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	store := domain.NewRecordStore()
	cache, err := chart.NewSeriesCache(store, cfg.SeriesCacheSize, metrics)
	if err != nil {
		logger.Error("failed to create series cache", "error", err)
		os.Exit(1)
	}

	client := covidtracking.NewClient(cfg.APIBaseURL, cfg.FetchTimeout, logger)

	opts := []pipeline.Option{pipeline.WithInterval(cfg.RefreshInterval)}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(writer))
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	refresher := pipeline.New(client, store, logger, metrics, opts...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, refresher, store, cache, metrics, logger)

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
