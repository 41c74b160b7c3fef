package contact

import (
	"context"
	"time"

	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
)

const StorageKey = "contacts"

// Contact is an inquiry from the contact form. The collection is append-only.
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository struct {
	list *collection.List[Contact]
	ids  *collection.IDGenerator
	pub  events.Publisher
}

func NewRepository(store kv.Store, pub events.Publisher) *Repository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Repository{
		list: collection.NewList[Contact](store, StorageKey),
		ids:  collection.Default,
		pub:  pub,
	}
}

func (r *Repository) GetAll(ctx context.Context) []Contact {
	return r.list.All(ctx)
}

func (r *Repository) Add(ctx context.Context, c Contact) (Contact, error) {
	c.ID, c.CreatedAt = r.ids.Next()
	if err := r.list.Append(ctx, c); err != nil {
		return Contact{}, err
	}
	r.pub.Publish(ctx, events.ContactSubmitted, StorageKey, c)
	return c, nil
}
