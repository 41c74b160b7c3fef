package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/events"
	"github.com/example/litebay/internal/infrastructure/kv/mocks"
)

var (
	mouse    = product.Product{ID: 1, Name: "Chuột không dây", Price: 200000, Stock: 3}
	keyboard = product.Product{ID: 2, Name: "Bàn phím", Price: 500000, Stock: 10}
)

func newTestStore() (*Store, *mocks.MockStore) {
	kvStore := mocks.NewMockStore()
	return NewStore(context.Background(), kvStore, nil), kvStore
}

// ============================================
// AddItem Tests
// ============================================

func TestStore_AddItem_MergesSameProduct(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()

	for _, q := range []int{1, 2, 4} {
		require.NoError(t, s.AddItem(ctx, mouse, q))
	}

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestStore_AddItem_DefaultQuantity(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.AddItem(context.Background(), mouse, 0))

	assert.Equal(t, 1, s.Items()[0].Quantity)
}

func TestStore_AddItem_KeepsOriginalSnapshot(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, mouse, 1))

	repriced := mouse
	repriced.Price = 1
	repriced.Name = "renamed"
	require.NoError(t, s.AddItem(ctx, repriced, 1))

	items := s.Items()
	assert.Equal(t, 200000, items[0].Price)
	assert.Equal(t, "Chuột không dây", items[0].Name)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestStore_AddItem_Invalid(t *testing.T) {
	s, kvStore := newTestStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.AddItem(ctx, product.Product{Name: "no id"}, 1), ErrInvalidProduct)
	assert.Empty(t, kvStore.SetCalls)
}

func TestStore_AddItem_NonPositiveQuantityAddsOne(t *testing.T) {
	for _, q := range []int{0, -2} {
		s, _ := newTestStore()
		ctx := context.Background()

		require.NoError(t, s.AddItem(ctx, mouse, q))
		require.NoError(t, s.AddItem(ctx, mouse, q))

		items := s.Items()
		require.Len(t, items, 1, "quantity %d", q)
		assert.Equal(t, 2, items[0].Quantity, "quantity %d", q)
		assert.Equal(t, 2, s.TotalItems(), "quantity %d", q)
	}
}

func TestStore_AddItem_DoesNotClampToStock(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.AddItem(context.Background(), mouse, 50))

	assert.Equal(t, 50, s.Items()[0].Quantity)
}

// ============================================
// Remove / Update Tests
// ============================================

func TestStore_UpdateQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -5} {
		s, _ := newTestStore()
		ctx := context.Background()
		require.NoError(t, s.AddItem(ctx, mouse, 2))
		require.NoError(t, s.AddItem(ctx, keyboard, 1))

		require.NoError(t, s.UpdateQuantity(ctx, mouse.ID, q))

		other, _ := newTestStore()
		require.NoError(t, other.AddItem(ctx, mouse, 2))
		require.NoError(t, other.AddItem(ctx, keyboard, 1))
		require.NoError(t, other.RemoveItem(ctx, mouse.ID))

		assert.Equal(t, other.Items(), s.Items())
		assert.Len(t, s.Items(), 1)
	}
}

func TestStore_UpdateQuantity_Replaces(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, mouse, 2))

	require.NoError(t, s.UpdateQuantity(ctx, mouse.ID, 9))
	require.NoError(t, s.UpdateQuantity(ctx, 404, 3))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 9, items[0].Quantity)
}

func TestStore_RemoveItem_AbsentIsNoop(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, mouse, 1))

	require.NoError(t, s.RemoveItem(ctx, 404))

	assert.Len(t, s.Items(), 1)
}

func TestStore_Clear(t *testing.T) {
	s, kvStore := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, mouse, 1))

	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Items())
	raw, _ := kvStore.Raw(StorageKey)
	assert.JSONEq(t, `{"items":[]}`, raw)
}

// ============================================
// Totals Tests
// ============================================

func TestStore_Totals(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, s.AddItem(ctx, mouse, 2))
	require.NoError(t, s.AddItem(ctx, keyboard, 3))

	assert.Equal(t, 5, s.TotalItems())
	assert.Equal(t, 2*200000+3*500000, s.TotalPrice())
}

func TestStore_TotalPriceUsesSnapshot(t *testing.T) {
	s, _ := newTestStore()
	ctx := context.Background()
	p := keyboard
	require.NoError(t, s.AddItem(ctx, p, 2))

	p.Price = 999999

	assert.Equal(t, 1000000, s.TotalPrice())
}

// ============================================
// Persistence Tests
// ============================================

func TestStore_PersistsAndHydrates(t *testing.T) {
	ctx := context.Background()
	s, kvStore := newTestStore()
	require.NoError(t, s.AddItem(ctx, mouse, 2))

	raw, ok := kvStore.Raw(StorageKey)
	require.True(t, ok)
	assert.Contains(t, raw, `"items":[`)
	assert.Contains(t, raw, `"quantity":2`)
	assert.Contains(t, raw, `"name":"Chuột không dây"`)

	reloaded := NewStore(ctx, kvStore, nil)
	assert.Equal(t, s.Items(), reloaded.Items())
}

func TestStore_HydrateCorruptStartsEmpty(t *testing.T) {
	kvStore := mocks.NewMockStore()
	kvStore.SetRaw(StorageKey, "[[[")

	s := NewStore(context.Background(), kvStore, nil)

	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())
}

func TestStore_WriteFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s, kvStore := newTestStore()
	require.NoError(t, s.AddItem(ctx, mouse, 1))

	kvStore.SetErr = errors.New("disk full")
	assert.Error(t, s.AddItem(ctx, keyboard, 1))
	assert.Error(t, s.Clear(ctx))

	assert.Len(t, s.Items(), 1)
}

func TestStore_PublishesChanges(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus(nil)
	var got []ChangedEvent
	bus.Subscribe(events.CartChanged, func(ctx context.Context, e events.Event) {
		var payload ChangedEvent
		require.NoError(t, e.Decode(&payload))
		got = append(got, payload)
	})
	s := NewStore(ctx, mocks.NewMockStore(), bus)

	require.NoError(t, s.AddItem(ctx, mouse, 2))
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, []ChangedEvent{{2, 400000}, {0, 0}}, got)
}
