package visit

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
	"github.com/example/litebay/internal/logger"
)

// StorageKey holds the count as decimal text
const StorageKey = "visitCount"

// CountedEvent is the payload of visit.counted
type CountedEvent struct {
	Count int `json:"count"`
}

type Counter struct {
	mu    sync.Mutex
	store kv.Store
	pub   events.Publisher
}

func NewCounter(store kv.Store, pub events.Publisher) *Counter {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Counter{store: store, pub: pub}
}

// Get returns the stored count, 0 when absent or unreadable
func (c *Counter) Get(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read(ctx)
}

// Increment stores current+1 and returns the new count
func (c *Counter) Increment(ctx context.Context) (int, error) {
	c.mu.Lock()
	next := c.read(ctx) + 1
	err := c.store.Set(ctx, StorageKey, []byte(strconv.Itoa(next)))
	c.mu.Unlock()
	if err != nil {
		return 0, err
	}

	c.pub.Publish(ctx, events.VisitCounted, StorageKey, CountedEvent{Count: next})
	return next, nil
}

func (c *Counter) read(ctx context.Context) int {
	log := logger.Component("visit")

	raw, ok, err := c.store.Get(ctx, StorageKey)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read visit count")
		return 0
	}
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || n < 0 {
		log.Warn().Str("value", string(raw)).Msg("ignoring unreadable visit count")
		return 0
	}
	return n
}
