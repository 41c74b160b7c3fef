package events

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/litebay/internal/logger"
)

// Event types published after a successful mutation
const (
	WishlistChanged  = "wishlist.changed"
	CartChanged      = "cart.changed"
	OrderPlaced      = "order.placed"
	ContactSubmitted = "contact.submitted"
	UserRegistered   = "user.registered"
	UserLoggedIn     = "user.logged_in"
	UserLoggedOut    = "user.logged_out"
	ProductChanged   = "product.changed"
	VisitCounted     = "visit.counted"

	// All subscribes to every event type
	All = "*"
)

// Event is the envelope delivered to subscribers and forwarded to the sink
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the event payload into v
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}

type Handler func(ctx context.Context, event Event)

// Publisher is implemented by anything that accepts mutation notifications
type Publisher interface {
	Publish(ctx context.Context, eventType, key string, data any)
}

// Sink receives every published event after in-process delivery
type Sink interface {
	Forward(ctx context.Context, event Event) error
}

type subscription struct {
	id        int
	eventType string
	fn        Handler
}

// Bus delivers events synchronously to in-process subscribers, in the order
// they subscribed, then to an optional sink
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
	sink   Sink
}

func NewBus(sink Sink) *Bus {
	return &Bus{sink: sink}
}

// Subscribe registers fn for eventType and returns a function that removes it
func (b *Bus) Subscribe(eventType string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, eventType: eventType, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
	}
}

// Publish notifies subscribers of eventType and All. Sink failures are logged;
// notification is best-effort and never undoes the mutation that triggered it.
func (b *Bus) Publish(ctx context.Context, eventType, key string, data any) {
	log := logger.Component("events")

	payload, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("failed to encode event payload")
		return
	}

	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Key:       key,
		Data:      payload,
		Timestamp: time.Now(),
	}

	for _, fn := range b.handlers(eventType) {
		fn(ctx, event)
	}

	if b.sink != nil {
		if err := b.sink.Forward(ctx, event); err != nil {
			log.Warn().Err(err).Str("type", eventType).Str("key", key).Msg("failed to forward event")
		}
	}
}

// handlers snapshots the subscribers so handlers may subscribe or publish re-entrantly
func (b *Bus) handlers(eventType string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []Handler
	for _, s := range b.subs {
		if s.eventType == eventType || s.eventType == All {
			out = append(out, s.fn)
		}
	}
	return out
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) {}
