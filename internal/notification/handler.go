package notification

import (
	"context"
	"fmt"

	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/email"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/logger"
)

// Mailer is implemented by email.Service
type Mailer interface {
	SendOrderConfirmation(to string, o email.Order) error
	SendContactAcknowledgement(to string, c email.Contact) error
}

// Handler processes events for sending notifications
type Handler struct {
	mailer Mailer
}

// NewHandler creates a new notification handler
func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// HandleEvent sends mail for order.placed and contact.submitted; other events are ignored
func (h *Handler) HandleEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.OrderPlaced:
		return h.handleOrderPlaced(event)
	case events.ContactSubmitted:
		return h.handleContactSubmitted(event)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(event events.Event) error {
	log := logger.Component("notifier")

	var o order.Order
	if err := event.Decode(&o); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to decode order.placed")
		return err
	}
	if o.Email == "" {
		log.Warn().Int64("order_id", o.ID).Msg("order has no email, skipping confirmation")
		return nil
	}

	items := make([]email.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = email.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	err := h.mailer.SendOrderConfirmation(o.Email, email.Order{
		ID:            o.ID,
		CustomerName:  o.Name,
		Address:       o.Address,
		Phone:         o.Phone,
		PaymentMethod: string(o.PaymentMethod),
		Items:         items,
		Subtotal:      o.Subtotal,
		ShippingFee:   o.ShippingFee,
		Total:         o.Total,
	})
	if err != nil {
		log.Error().Err(err).Str("to", o.Email).Int64("order_id", o.ID).Msg("failed to send order confirmation")
		return fmt.Errorf("send order confirmation: %w", err)
	}

	log.Info().Str("to", o.Email).Int64("order_id", o.ID).Msg("order confirmation email sent")
	return nil
}

func (h *Handler) handleContactSubmitted(event events.Event) error {
	log := logger.Component("notifier")

	var c contact.Contact
	if err := event.Decode(&c); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("failed to decode contact.submitted")
		return err
	}
	if c.Email == "" {
		return nil
	}

	if err := h.mailer.SendContactAcknowledgement(c.Email, email.Contact{ID: c.ID, Name: c.Name, Message: c.Message}); err != nil {
		log.Error().Err(err).Str("to", c.Email).Int64("contact_id", c.ID).Msg("failed to send contact acknowledgement")
		return fmt.Errorf("send contact acknowledgement: %w", err)
	}

	log.Info().Str("to", c.Email).Int64("contact_id", c.ID).Msg("contact acknowledgement sent")
	return nil
}
