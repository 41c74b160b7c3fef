package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/logger"
)

// EventHandler processes one decoded storefront event
type EventHandler func(ctx context.Context, event events.Event) error

// MessageReader is the subset of *kafka.Reader the consumer needs
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader MessageReader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader}
}

// NewConsumerWithReader wraps an existing reader (used in tests)
func NewConsumerWithReader(r MessageReader) *Consumer {
	return &Consumer{reader: r}
}

// Consume reads until ctx is cancelled. Messages that do not decode and
// messages the handler fails on are logged and skipped.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	log := logger.Component("kafka")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Msg("error reading message")
			continue
		}

		event, err := decodeEvent(msg)
		if err != nil {
			log.Warn().Err(err).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("skipping undecodable message")
			continue
		}

		if err := handler(ctx, event); err != nil {
			log.Error().Err(err).
				Str("type", event.Type).
				Str("event_id", event.ID).
				Int64("offset", msg.Offset).
				Msg("error handling event")
		}
	}
}

// decodeEvent reads the envelope written by Producer.Forward. The headers fill
// in type and id for envelopes that omit them.
func decodeEvent(msg kafka.Message) (events.Event, error) {
	var event events.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return events.Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if event.Type == "" {
		event.Type = header(msg, HeaderEventType)
	}
	if event.ID == "" {
		event.ID = header(msg, HeaderEventID)
	}
	if event.Key == "" {
		event.Key = string(msg.Key)
	}
	return event, nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
