package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/litebay/internal/logger"
)

// Store is a persistent string-keyed store. It has no transactional guarantees:
// concurrent writers race and the last write wins.
type Store interface {
	// Get returns the stored value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key; removing an absent key is not an error
	Remove(ctx context.Context, key string) error
}

// ClosableStore is a Store backed by a resource that must be released
type ClosableStore interface {
	Store
	io.Closer
}

// GetJSON reads key and decodes it into T. Absent, unreadable or malformed
// values all yield the zero value and false; the failure is logged, never returned.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var zero T

	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log := logger.Component("kv")
		log.Warn().Err(err).Str("key", key).Msg("read failed, using empty value")
		return zero, false
	}
	if !ok || len(raw) == 0 {
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log := logger.Component("kv")
		log.Warn().Err(err).Str("key", key).Msg("stored value is corrupt, using empty value")
		return zero, false
	}
	return v, true
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}
