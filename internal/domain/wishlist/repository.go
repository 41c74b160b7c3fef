package wishlist

import (
	"context"
	"slices"

	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
)

const StorageKey = "wishlist"

// ChangedEvent is the payload of wishlist.changed
type ChangedEvent struct {
	IDs   []int64 `json:"ids"`
	Count int     `json:"count"`
}

// Repository stores the wishlist as a set of product ids in insertion order.
// Every mutation publishes wishlist.changed so counters update without polling.
type Repository struct {
	list *collection.List[int64]
	pub  events.Publisher
}

func NewRepository(store kv.Store, pub events.Publisher) *Repository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Repository{
		list: collection.NewList[int64](store, StorageKey),
		pub:  pub,
	}
}

func (r *Repository) GetAll(ctx context.Context) []int64 {
	return r.list.All(ctx)
}

// Add inserts id unless it is already present
func (r *Repository) Add(ctx context.Context, id int64) error {
	return r.mutate(ctx, func(ids []int64) []int64 {
		if slices.Contains(ids, id) {
			return ids
		}
		return append(ids, id)
	})
}

func (r *Repository) Remove(ctx context.Context, id int64) error {
	return r.mutate(ctx, func(ids []int64) []int64 {
		return slices.DeleteFunc(ids, func(v int64) bool { return v == id })
	})
}

func (r *Repository) IsInWishlist(ctx context.Context, id int64) bool {
	return slices.Contains(r.list.All(ctx), id)
}

// Toggle adds id when absent and removes it otherwise, reporting membership afterwards
func (r *Repository) Toggle(ctx context.Context, id int64) (bool, error) {
	var member bool
	err := r.mutate(ctx, func(ids []int64) []int64 {
		if slices.Contains(ids, id) {
			member = false
			return slices.DeleteFunc(ids, func(v int64) bool { return v == id })
		}
		member = true
		return append(ids, id)
	})
	return member, err
}

func (r *Repository) mutate(ctx context.Context, fn func([]int64) []int64) error {
	var snapshot []int64
	err := r.list.Update(ctx, func(ids []int64) []int64 {
		ids = fn(ids)
		snapshot = slices.Clone(ids)
		return ids
	})
	if err != nil {
		return err
	}
	if snapshot == nil {
		snapshot = []int64{}
	}
	r.pub.Publish(ctx, events.WishlistChanged, StorageKey, ChangedEvent{IDs: snapshot, Count: len(snapshot)})
	return nil
}
