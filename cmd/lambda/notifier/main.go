package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/example/litebay/internal/config"
	"github.com/example/litebay/internal/email"
	"github.com/example/litebay/internal/infrastructure/kinesis"
	"github.com/example/litebay/internal/logger"
	"github.com/example/litebay/internal/notification"
)

var notificationHandler *notification.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init("lambda-notifier", false)
	logger.SetLevel(cfg.LogLevel)

	emailSvc := email.NewService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	notificationHandler = notification.NewHandler(emailSvc)

	log := logger.Component("lambda")
	log.Info().Str("smtp", cfg.SMTP.Host+":"+cfg.SMTP.Port).Msg("initialized")
}

// handler consumes the key-value table's change stream. A record is retried
// when it cannot be decoded or any of its notifications fails.
func handler(ctx context.Context, kinesisEvent events.KinesisEvent) (events.KinesisEventResponse, error) {
	log := logger.Component("lambda")
	log.Info().Int("records", len(kinesisEvent.Records)).Msg("received batch")

	var batchItemFailures []events.KinesisBatchItemFailure
	fail := func(record events.KinesisEventRecord) {
		batchItemFailures = append(batchItemFailures, events.KinesisBatchItemFailure{
			ItemIdentifier: record.Kinesis.SequenceNumber,
		})
	}

	for _, record := range kinesisEvent.Records {
		converted, err := kinesis.ConvertFromKinesisRecord(record)
		if err != nil {
			log.Error().Err(err).Str("record", record.EventID).Msg("failed to convert record")
			fail(record)
			continue
		}

		for _, event := range converted {
			if err := notificationHandler.HandleEvent(ctx, event); err != nil {
				log.Error().Err(err).Str("event_id", event.ID).Str("type", event.Type).Msg("failed to process event")
				fail(record)
				break
			}
		}
	}

	log.Info().
		Int("succeeded", len(kinesisEvent.Records)-len(batchItemFailures)).
		Int("total", len(kinesisEvent.Records)).
		Msg("batch processed")

	return events.KinesisEventResponse{
		BatchItemFailures: batchItemFailures,
	}, nil
}

func main() {
	lambda.Start(handler)
}
