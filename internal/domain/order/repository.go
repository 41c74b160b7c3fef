package order

import (
	"context"
	"time"

	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv"
)

const StorageKey = "orders"

type Status string

const StatusPending Status = "pending"

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentBank    PaymentMethod = "bank"
	PaymentMomo    PaymentMethod = "momo"
	PaymentZaloPay PaymentMethod = "zalopay"
)

var PaymentMethods = []PaymentMethod{PaymentCOD, PaymentBank, PaymentMomo, PaymentZaloPay}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// Recipient holds the delivery fields captured at checkout
type Recipient struct {
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// Order is immutable once stored
type Order struct {
	ID int64 `json:"id"`
	Recipient
	Items       []cart.Item `json:"items"`
	Subtotal    int         `json:"subtotal"`
	ShippingFee int         `json:"shippingFee"`
	Total       int         `json:"total"`
	Status      Status      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type Repository struct {
	list *collection.List[Order]
	ids  *collection.IDGenerator
	pub  events.Publisher
}

func NewRepository(store kv.Store, pub events.Publisher) *Repository {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Repository{
		list: collection.NewList[Order](store, StorageKey),
		ids:  collection.Default,
		pub:  pub,
	}
}

func (r *Repository) GetAll(ctx context.Context) []Order {
	return r.list.All(ctx)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (Order, bool) {
	return collection.Find(r.list.All(ctx), func(o Order) bool { return o.ID == id })
}

// Add assigns a fresh id and creation time, appends and returns the stored order
func (r *Repository) Add(ctx context.Context, o Order) (Order, error) {
	o.ID, o.CreatedAt = r.ids.Next()
	if o.Status == "" {
		o.Status = StatusPending
	}

	if err := r.list.Append(ctx, o); err != nil {
		return Order{}, err
	}
	r.pub.Publish(ctx, events.OrderPlaced, StorageKey, o)
	return o, nil
}
