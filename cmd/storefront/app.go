package main

import (
	"context"
	"fmt"

	"github.com/example/litebay/internal/config"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kafka"
	"github.com/example/litebay/internal/infrastructure/kv"
	"github.com/example/litebay/internal/logger"
)

// app is the wiring shared by every subcommand
type app struct {
	cfg      config.Config
	store    kv.ClosableStore
	bus      *events.Bus
	producer *kafka.Producer
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger.Init("storefront", cfg.Development)
	logger.SetLevel(cfg.LogLevel)
	return cfg, nil
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	log := logger.Component("storefront")

	store, err := kv.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Info().Str("backend", cfg.Storage.Backend).Msg("storage ready")

	a := &app{cfg: cfg, store: store}
	if cfg.Kafka.Enabled() {
		a.producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.bus = events.NewBus(a.producer)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("forwarding events to kafka")
	} else {
		a.bus = events.NewBus(nil)
	}
	return a, nil
}

func (a *app) Close() {
	log := logger.Component("storefront")
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close kafka producer")
		}
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close storage")
	}
}
