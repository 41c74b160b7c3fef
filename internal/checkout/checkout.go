package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/logger"
	"github.com/example/litebay/internal/validation"
)

const (
	FreeShippingThreshold = 2_000_000
	ShippingFee           = 50_000
)

var ErrEmptyCart = errors.New("cart is empty")

// Summary is the price breakdown shown on the cart and checkout pages
type Summary struct {
	Subtotal int `json:"subtotal"`
	Shipping int `json:"shipping"`
	Total    int `json:"total"`
	// FreeShippingRemaining is how much more to spend for free shipping, 0 once the hint no longer applies
	FreeShippingRemaining int `json:"freeShippingRemaining"`
}

// Quote prices shipping: free strictly above the threshold, a flat fee otherwise
func Quote(subtotal int) Summary {
	s := Summary{Subtotal: subtotal, Shipping: ShippingFee}
	if subtotal > FreeShippingThreshold {
		s.Shipping = 0
	}
	if subtotal < FreeShippingThreshold {
		s.FreeShippingRemaining = FreeShippingThreshold - subtotal
	}
	s.Total = s.Subtotal + s.Shipping
	return s
}

// ShippingInfo is the checkout form
type ShippingInfo struct {
	Name          string `json:"name" validate:"notblank"`
	Email         string `json:"email" validate:"notblank,email,max=254"`
	Phone         string `json:"phone" validate:"notblank"`
	Address       string `json:"address" validate:"notblank"`
	PaymentMethod string `json:"paymentMethod" validate:"notblank"`
}

func (in ShippingInfo) Validate() error {
	errs := validation.Struct(in)
	if !errs.Has("paymentMethod") && !order.PaymentMethod(in.PaymentMethod).Valid() {
		errs.Add("paymentMethod", "payment method is not supported")
	}
	return errs.Err()
}

// ContactInput is the contact form
type ContactInput struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"notblank,email,max=254"`
	Phone   string `json:"phone" validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
	Message string `json:"message" validate:"notblank"`
}

func (in ContactInput) Validate() error {
	return validation.Struct(in).Err()
}

type Cart interface {
	Items() []cart.Item
	TotalPrice() int
	Clear(ctx context.Context) error
}

type OrderStore interface {
	Add(ctx context.Context, o order.Order) (order.Order, error)
}

type ContactStore interface {
	Add(ctx context.Context, c contact.Contact) (contact.Contact, error)
}

type Service struct {
	cart     Cart
	orders   OrderStore
	contacts ContactStore
}

func NewService(c Cart, orders OrderStore, contacts ContactStore) *Service {
	return &Service{cart: c, orders: orders, contacts: contacts}
}

// Summary prices the current cart
func (s *Service) Summary() Summary {
	return Quote(s.cart.TotalPrice())
}

// PlaceOrder turns the cart into a pending order and empties the cart.
// Nothing is stored when validation fails or the cart is empty.
func (s *Service) PlaceOrder(ctx context.Context, info ShippingInfo) (order.Order, error) {
	if err := info.Validate(); err != nil {
		return order.Order{}, err
	}
	items := s.cart.Items()
	if len(items) == 0 {
		return order.Order{}, ErrEmptyCart
	}

	summary := Quote(s.cart.TotalPrice())
	placed, err := s.orders.Add(ctx, order.Order{
		Recipient: order.Recipient{
			Name:          strings.TrimSpace(info.Name),
			Email:         strings.TrimSpace(info.Email),
			Phone:         strings.TrimSpace(info.Phone),
			Address:       strings.TrimSpace(info.Address),
			PaymentMethod: order.PaymentMethod(info.PaymentMethod),
		},
		Items:       items,
		Subtotal:    summary.Subtotal,
		ShippingFee: summary.Shipping,
		Total:       summary.Total,
		Status:      order.StatusPending,
	})
	if err != nil {
		return order.Order{}, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		// The order is already stored; report it as placed
		log := logger.Component("checkout")
		log.Error().Err(err).Int64("order_id", placed.ID).Msg("failed to clear cart after order")
	}
	return placed, nil
}

func (s *Service) SubmitContact(ctx context.Context, in ContactInput) (contact.Contact, error) {
	if err := in.Validate(); err != nil {
		return contact.Contact{}, err
	}
	return s.contacts.Add(ctx, contact.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Message: in.Message,
	})
}
