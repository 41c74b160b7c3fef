package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/litebay/internal/config"
	"github.com/example/litebay/internal/email"
	"github.com/example/litebay/internal/infrastructure/kafka"
	"github.com/example/litebay/internal/logger"
	"github.com/example/litebay/internal/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init("notifier", cfg.Development)
	logger.SetLevel(cfg.LogLevel)
	log := logger.Component("notifier")

	if !cfg.Kafka.Enabled() {
		log.Fatal().Msg("KAFKA_BROKERS is required")
	}

	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Str("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port).
		Str("from", cfg.SMTP.From).
		Msg("starting email notifier")

	mailer := email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	handler := notification.NewHandler(mailer)

	if err := run(cfg.Kafka, handler); err != nil {
		log.Error().Err(err).Msg("consumer stopped")
		os.Exit(1)
	}
	log.Info().Msg("shutting down")
}

func run(cfg config.KafkaConfig, handler *notification.Handler) error {
	consumer := kafka.NewConsumer(cfg.Brokers, cfg.Topic, cfg.GroupID)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := consumer.Consume(ctx, handler.HandleEvent)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
