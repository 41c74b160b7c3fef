package product

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
)

const StorageKey = "products"

var ErrDuplicateID = errors.New("product id already exists")

// Repository owns the mutable copy of the catalog persisted under "products".
// Products keep the id they were given; only a missing id is generated.
type Repository struct {
	list *collection.List[Product]
	ids  *collection.IDGenerator
	pub  events.Publisher
}

func NewRepository(store kv.Store, pub events.Publisher) *Repository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Repository{
		list: collection.NewList[Product](store, StorageKey),
		ids:  collection.Default,
		pub:  pub,
	}
}

// ChangedEvent is the payload of product.changed
type ChangedEvent struct {
	Action    string `json:"action"` // added, updated, deleted, replaced
	ProductID int64  `json:"productId,omitempty"`
	Count     int    `json:"count"`
}

func (r *Repository) GetAll(ctx context.Context) []Product {
	return r.list.All(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Product, bool) {
	return collection.Find(r.list.All(ctx), func(p Product) bool { return p.ID == id })
}

// Add validates and appends p. A zero id is replaced by a generated one; a
// negative or already stored id is refused.
func (r *Repository) Add(ctx context.Context, p Product) (Product, error) {
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	switch {
	case p.ID < 0:
		return Product{}, fmt.Errorf("%w: %d", collection.ErrInvalidID, p.ID)
	case p.ID == 0:
		p.ID, _ = r.ids.Next()
	}

	var count int
	err := r.list.TryUpdate(ctx, func(items []Product) ([]Product, error) {
		if slices.ContainsFunc(items, func(existing Product) bool { return existing.ID == p.ID }) {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		items = append(items, p)
		count = len(items)
		return items, nil
	})
	if err != nil {
		return Product{}, err
	}
	r.pub.Publish(ctx, events.ProductChanged, StorageKey, ChangedEvent{Action: "added", ProductID: p.ID, Count: count})
	return p, nil
}

// Update merges patch into the matching product and revalidates the result.
// Reports false when id is unknown; an invalid result is not stored.
func (r *Repository) Update(ctx context.Context, id int64, patch Patch) (Product, bool, error) {
	var (
		updated Product
		found   bool
		count   int
	)
	err := r.list.TryUpdate(ctx, func(items []Product) ([]Product, error) {
		count = len(items)
		i := slices.IndexFunc(items, func(p Product) bool { return p.ID == id })
		if i < 0 {
			return items, nil
		}
		found = true
		merged := items[i]
		patch.Apply(&merged)
		if err := merged.Validate(); err != nil {
			return nil, err
		}
		items[i] = merged
		updated = merged
		return items, nil
	})
	if err != nil || !found {
		return Product{}, false, err
	}
	r.pub.Publish(ctx, events.ProductChanged, StorageKey, ChangedEvent{Action: "updated", ProductID: id, Count: count})
	return updated, true, nil
}

// Delete removes the matching product. Reports false when id is unknown.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	found := false
	var count int
	err := r.list.Update(ctx, func(items []Product) []Product {
		before := len(items)
		items = slices.DeleteFunc(items, func(p Product) bool { return p.ID == id })
		found = len(items) != before
		count = len(items)
		return items
	})
	if err != nil || !found {
		return false, err
	}
	r.pub.Publish(ctx, events.ProductChanged, StorageKey, ChangedEvent{Action: "deleted", ProductID: id, Count: count})
	return true, nil
}

// ReplaceAll overwrites the stored copy, used when seeding from fixtures
func (r *Repository) ReplaceAll(ctx context.Context, products []Product) error {
	err := r.list.Update(ctx, func([]Product) []Product {
		return slices.Clone(products)
	})
	if err != nil {
		return err
	}
	r.pub.Publish(ctx, events.ProductChanged, StorageKey, ChangedEvent{Action: "replaced", Count: len(products)})
	return nil
}
