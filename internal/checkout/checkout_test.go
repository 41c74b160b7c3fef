package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/contact"
	"github.com/example/litebay/internal/domain/order"
	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/infrastructure/kv/mocks"
	"github.com/example/litebay/internal/validation"
)

type fixture struct {
	svc      *Service
	cart     *cart.Store
	orders   *order.Repository
	contacts *contact.Repository
	store    *mocks.MockStore
}

func newFixture() fixture {
	ctx := context.Background()
	store := mocks.NewMockStore()
	f := fixture{
		cart:     cart.NewStore(ctx, store, nil),
		orders:   order.NewRepository(store, nil),
		contacts: contact.NewRepository(store, nil),
		store:    store,
	}
	f.svc = NewService(f.cart, f.orders, f.contacts)
	return f
}

func validShipping() ShippingInfo {
	return ShippingInfo{
		Name:          "Nguyễn Văn A",
		Email:         "a@example.com",
		Phone:         "0901234567",
		Address:       "1 Lê Lợi, Q1",
		PaymentMethod: "momo",
	}
}

// ============================================
// Quote Tests
// ============================================

func TestQuote(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int
		want     Summary
	}{
		{"empty cart", 0, Summary{0, 50000, 50000, 2000000}},
		{"below threshold", 1500000, Summary{1500000, 50000, 1550000, 500000}},
		{"exactly threshold pays shipping", 2000000, Summary{2000000, 50000, 2050000, 0}},
		{"above threshold ships free", 2000001, Summary{2000001, 0, 2000001, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.subtotal))
		})
	}
}

// ============================================
// PlaceOrder Tests
// ============================================

func TestService_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: 1, Name: "Chuột", Price: 200000}, 2))
	require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: 2, Name: "Bàn phím", Price: 500000}, 1))
	assert.Equal(t, 900000, f.svc.Summary().Subtotal)

	placed, err := f.svc.PlaceOrder(ctx, validShipping())
	require.NoError(t, err)

	assert.NotZero(t, placed.ID)
	assert.Equal(t, order.StatusPending, placed.Status)
	assert.Equal(t, order.PaymentMomo, placed.PaymentMethod)
	assert.Equal(t, 900000, placed.Subtotal)
	assert.Equal(t, 50000, placed.ShippingFee)
	assert.Equal(t, 950000, placed.Total)
	require.Len(t, placed.Items, 2)
	assert.Equal(t, 2, placed.Items[0].Quantity)

	assert.Empty(t, f.cart.Items())
	stored, ok := f.orders.GetByID(ctx, placed.ID)
	assert.True(t, ok)
	assert.Equal(t, placed.Total, stored.Total)
}

func TestService_PlaceOrder_FreeShipping(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: 1, Name: "Laptop", Price: 15000000}, 1))

	placed, err := f.svc.PlaceOrder(ctx, validShipping())
	require.NoError(t, err)
	assert.Equal(t, 0, placed.ShippingFee)
	assert.Equal(t, 15000000, placed.Total)
}

func TestService_PlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PlaceOrder(context.Background(), validShipping())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.GetAll(context.Background()))
}

func TestService_PlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ShippingInfo)
		field  string
	}{
		{"missing name", func(in *ShippingInfo) { in.Name = " " }, "name"},
		{"bad email", func(in *ShippingInfo) { in.Email = "a@b" }, "email"},
		{"missing phone", func(in *ShippingInfo) { in.Phone = "" }, "phone"},
		{"missing address", func(in *ShippingInfo) { in.Address = "" }, "address"},
		{"missing payment", func(in *ShippingInfo) { in.PaymentMethod = "" }, "paymentMethod"},
		{"unknown payment", func(in *ShippingInfo) { in.PaymentMethod = "paypal" }, "paymentMethod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: 1, Name: "x", Price: 1}, 1))
			in := validShipping()
			tt.mutate(&in)

			_, err := f.svc.PlaceOrder(ctx, in)

			var fieldErrs validation.Errors
			require.True(t, errors.As(err, &fieldErrs))
			assert.Contains(t, fieldErrs, tt.field)
			assert.Len(t, f.cart.Items(), 1)
			assert.Empty(t, f.orders.GetAll(ctx))
		})
	}
}

func TestShippingInfo_PaymentMessages(t *testing.T) {
	in := validShipping()
	in.PaymentMethod = ""
	var fieldErrs validation.Errors
	require.True(t, errors.As(in.Validate(), &fieldErrs))
	assert.Equal(t, "payment method is required", fieldErrs["paymentMethod"])

	in.PaymentMethod = "paypal"
	require.True(t, errors.As(in.Validate(), &fieldErrs))
	assert.Equal(t, "payment method is not supported", fieldErrs["paymentMethod"])

	assert.NoError(t, validShipping().Validate())
}

func TestService_PlaceOrder_StoreFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	require.NoError(t, f.cart.AddItem(ctx, product.Product{ID: 1, Name: "x", Price: 1}, 1))
	f.store.SetErr = errors.New("disk full")

	_, err := f.svc.PlaceOrder(ctx, validShipping())

	assert.Error(t, err)
	assert.Len(t, f.cart.Items(), 1)
}

// ============================================
// Contact Tests
// ============================================

func TestService_SubmitContact(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	c, err := f.svc.SubmitContact(ctx, ContactInput{
		Name: "Trần B", Email: "b@example.com", Phone: "0909", Address: "HN", Message: "Còn hàng không?",
	})
	require.NoError(t, err)
	assert.NotZero(t, c.ID)
	assert.Len(t, f.contacts.GetAll(ctx), 1)
}

func TestService_SubmitContact_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.svc.SubmitContact(ctx, ContactInput{Email: "bad"})

	var fieldErrs validation.Errors
	require.True(t, errors.As(err, &fieldErrs))
	for _, field := range []string{"name", "email", "phone", "address", "message"} {
		assert.Contains(t, fieldErrs, field)
	}
	assert.Empty(t, f.contacts.GetAll(ctx))
}
