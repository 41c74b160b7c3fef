package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/email"
	"github.com/example/litebay/internal/events"
)

type fakeMailer struct {
	orders   map[string]email.Order
	contacts map[string]email.Contact
	err      error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{orders: map[string]email.Order{}, contacts: map[string]email.Contact{}}
}

func (m *fakeMailer) SendOrderConfirmation(to string, o email.Order) error {
	if m.err != nil {
		return m.err
	}
	m.orders[to] = o
	return nil
}

func (m *fakeMailer) SendContactAcknowledgement(to string, c email.Contact) error {
	if m.err != nil {
		return m.err
	}
	m.contacts[to] = c
	return nil
}

func mustEvent(t *testing.T, eventType string, data any) events.Event {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return events.Event{ID: "evt-1", Type: eventType, Data: raw}
}

func placedOrder() order.Order {
	return order.Order{
		ID: 99,
		Recipient: order.Recipient{
			Name: "An", Email: "an@example.com", Phone: "0909", Address: "HCM", PaymentMethod: order.PaymentBank,
		},
		Items:       []cart.Item{{Product: product.Product{ID: 3, Name: "Tai nghe", Price: 300000}, Quantity: 2}},
		Subtotal:    600000,
		ShippingFee: 50000,
		Total:       650000,
		Status:      order.StatusPending,
	}
}

func TestHandler_OrderPlaced(t *testing.T) {
	mailer := newFakeMailer()
	h := NewHandler(mailer)

	err := h.HandleEvent(context.Background(), mustEvent(t, events.OrderPlaced, placedOrder()))
	require.NoError(t, err)

	sent, ok := mailer.orders["an@example.com"]
	require.True(t, ok)
	assert.Equal(t, int64(99), sent.ID)
	assert.Equal(t, "bank", sent.PaymentMethod)
	assert.Equal(t, 650000, sent.Total)
	require.Len(t, sent.Items, 1)
	assert.Equal(t, email.OrderItem{ProductID: 3, Name: "Tai nghe", Quantity: 2, Price: 300000}, sent.Items[0])
}

func TestHandler_ContactSubmitted(t *testing.T) {
	mailer := newFakeMailer()
	h := NewHandler(mailer)

	c := contact.Contact{ID: 5, Name: "Bình", Email: "binh@example.com", Message: "Hỏi giá"}
	require.NoError(t, h.HandleEvent(context.Background(), mustEvent(t, events.ContactSubmitted, c)))

	assert.Equal(t, email.Contact{ID: 5, Name: "Bình", Message: "Hỏi giá"}, mailer.contacts["binh@example.com"])
}

func TestHandler_IgnoresOtherEvents(t *testing.T) {
	mailer := newFakeMailer()
	h := NewHandler(mailer)

	require.NoError(t, h.HandleEvent(context.Background(), mustEvent(t, events.CartChanged, map[string]int{"totalItems": 1})))
	assert.Empty(t, mailer.orders)
	assert.Empty(t, mailer.contacts)
}

func TestHandler_SkipsMissingEmail(t *testing.T) {
	mailer := newFakeMailer()
	h := NewHandler(mailer)
	o := placedOrder()
	o.Email = ""

	require.NoError(t, h.HandleEvent(context.Background(), mustEvent(t, events.OrderPlaced, o)))
	assert.Empty(t, mailer.orders)
}

func TestHandler_MailerError(t *testing.T) {
	mailer := newFakeMailer()
	mailer.err = errors.New("smtp down")
	h := NewHandler(mailer)

	err := h.HandleEvent(context.Background(), mustEvent(t, events.OrderPlaced, placedOrder()))
	assert.ErrorIs(t, err, mailer.err)
}

func TestHandler_BadPayload(t *testing.T) {
	h := NewHandler(newFakeMailer())
	event := events.Event{Type: events.OrderPlaced, Data: json.RawMessage(`"just a string"`)}

	assert.Error(t, h.HandleEvent(context.Background(), event))
}
