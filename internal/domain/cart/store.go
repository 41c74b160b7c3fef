package cart

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
)

// StorageKey is the dedicated namespace the cart is persisted under
const StorageKey = "litebay-cart"

var ErrInvalidProduct = errors.New("product id is required")

// Item is a product snapshot taken when it was added, plus a quantity
type Item struct {
	product.Product
	Quantity int `json:"quantity"`
}

// Subtotal is the snapshotted price times quantity
func (i Item) Subtotal() int {
	return i.Price * i.Quantity
}

type state struct {
	Items []Item `json:"items"`
}

// ChangedEvent is the payload of cart.changed
type ChangedEvent struct {
	TotalItems int `json:"totalItems"`
	TotalPrice int `json:"totalPrice"`
}

// Store is the in-memory cart mirrored to persistence on every mutation.
// A mutation whose write fails leaves the in-memory cart unchanged.
type Store struct {
	mu    sync.RWMutex
	store kv.Store
	pub   events.Publisher
	items []Item
}

// NewStore hydrates the cart from persistence, starting empty when nothing usable is stored
func NewStore(ctx context.Context, store kv.Store, pub events.Publisher) *Store {
	if pub == nil {
		pub = events.Nop{}
	}
	s := &Store{store: store, pub: pub}
	if st, ok := kv.GetJSON[state](ctx, store, StorageKey); ok {
		s.items = st.Items
	}
	return s
}

// Items returns a copy of the cart contents in insertion order
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// AddItem merges quantity into an existing entry for the same product, or
// appends a new snapshot. A quantity of zero or less means one.
func (s *Store) AddItem(ctx context.Context, p product.Product, quantity int) error {
	if p.ID == 0 {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		quantity = 1
	}

	return s.mutate(ctx, func(items []Item) []Item {
		if i := indexOf(items, p.ID); i >= 0 {
			items[i].Quantity += quantity
			return items
		}
		return append(items, Item{Product: p, Quantity: quantity})
	})
}

func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(items []Item) []Item {
		return slices.DeleteFunc(items, func(it Item) bool { return it.ID == productID })
	})
}

// UpdateQuantity sets the quantity of an entry; quantity <= 0 removes it.
// Stock is not enforced here.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	return s.mutate(ctx, func(items []Item) []Item {
		if i := indexOf(items, productID); i >= 0 {
			items[i].Quantity = quantity
		}
		return items
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]Item) []Item { return []Item{} })
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalItems(s.items)
}

// TotalPrice sums snapshotted price times quantity
func (s *Store) TotalPrice() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPrice(s.items)
}

func (s *Store) mutate(ctx context.Context, fn func([]Item) []Item) error {
	s.mu.Lock()
	next := fn(slices.Clone(s.items))
	if next == nil {
		next = []Item{}
	}
	if err := kv.SetJSON(ctx, s.store, StorageKey, state{Items: next}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.items = next
	payload := ChangedEvent{TotalItems: totalItems(next), TotalPrice: totalPrice(next)}
	s.mu.Unlock()

	s.pub.Publish(ctx, events.CartChanged, StorageKey, payload)
	return nil
}

func indexOf(items []Item, productID int64) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ID == productID })
}

func totalItems(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

func totalPrice(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}
