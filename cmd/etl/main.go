package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/weather-series-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-series-etl/internal/adapter/kafka"
	"github.com/couchcryptid/weather-series-etl/internal/config"
	"github.com/couchcryptid/weather-series-etl/internal/observability"
	"github.com/couchcryptid/weather-series-etl/internal/pipeline"
	"github.com/couchcryptid/weather-series-etl/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, metrics, logger)
	latest := store.NewLatestStore()
	transformer := pipeline.NewTransformer(clock, cfg.DisplayLocation, cfg.DisplayWindow, metrics, logger)

	// Kafka first: the read API only sees series the sink accepted.
	loader := pipeline.FanoutLoader{writer, latest}
	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, latest, httpadapter.Display{
		Clock:      clock,
		Location:   cfg.DisplayLocation,
		WindowSize: cfg.DisplayWindow,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	logger.Info("starting pipeline",
		"source_topic", cfg.KafkaSourceTopic,
		"sink_topic", cfg.KafkaSinkTopic,
		"display_window", cfg.DisplayWindow,
		"display_timezone", cfg.DisplayLocation.String(),
	)
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
