package storefront

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/internal/cart"
	"github.com/pudimaria/storefront-backend/internal/checkout"
	"github.com/pudimaria/storefront-backend/internal/stock"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersistence struct {
	data map[string]string
}

func newMemPersistence() *memPersistence {
	return &memPersistence{data: map[string]string{}}
}

func (m *memPersistence) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *memPersistence) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (m *memPersistence) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memPersistence) CartKey(sessionID string) string {
	return "test:cart:" + sessionID
}

type fakeInventory struct {
	entries    map[uuid.UUID]map[enums.Size]stock.Entry
	names      map[uuid.UUID]string
	refreshErr error
	fetches    int
}

func (f *fakeInventory) Snapshot(_ context.Context, productID uuid.UUID, seq uint64) (*stock.Snapshot, error) {
	f.fetches++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	entries, ok := f.entries[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return stock.NewSnapshot(productID, seq, entries), nil
}

func (f *fakeInventory) ProductNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func newTestService(t *testing.T, inventory *fakeInventory) Service {
	t.Helper()
	carts := cart.NewSessionStore(newMemPersistence(), time.Hour, nil)
	orders := checkout.NewService("5511961729140", inventory, nil)
	svc, err := NewService(ServiceParams{
		Carts:     carts,
		Inventory: inventory,
		Orders:    orders,
	})
	require.NoError(t, err)
	return svc
}

func stockedInventory(productID uuid.UUID, qty int) *fakeInventory {
	return &fakeInventory{
		entries: map[uuid.UUID]map[enums.Size]stock.Entry{
			productID: {
				enums.Size250ml: {AvailableQuantity: qty, Price: decimal.NewFromFloat(18.50)},
			},
		},
		names: map[uuid.UUID]string{productID: "Pudim Tradicional"},
	}
}

func TestAddItemCapturesSnapshotPrice(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	view, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Pudim Tradicional", view.Items[0].Name)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].UnitPrice.Equal(decimal.NewFromFloat(18.50)))
	assert.True(t, view.Total.Equal(decimal.NewFromFloat(37)))
	assert.True(t, view.IsOpen, "adding must open the cart panel")
}

func TestAddItemRejectsBeyondAvailableToPromise(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 2})
	require.NoError(t, err)

	// Stock 5, cart holds 2: asking for 4 must cite the 3 remaining.
	_, err = svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 4})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3, details["available"])

	// The rejected add must not have touched the cart.
	view, err := svc.ViewCart(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)

	// Taking exactly the remainder drains the size.
	_, err = svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 3})
	require.NoError(t, err)

	availability, err := svc.Availability(ctx, "sess-1", productID)
	require.NoError(t, err)
	require.Len(t, availability.Sizes, 1)
	assert.Equal(t, 0, availability.Sizes[0].AvailableToPromise)
	assert.False(t, availability.Sizes[0].Selectable)
	assert.False(t, availability.Available)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc := newTestService(t, &fakeInventory{})
	_, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{
		ProductID: uuid.New(), Size: enums.Size250ml, Quantity: 1,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestAddItemSizeNotOffered(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	_, err := svc.AddItem(context.Background(), "sess-1", AddItemInput{
		ProductID: productID, Size: enums.Size1000ml, Quantity: 1,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateItemReplacesAndCapsAtStock(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 2})
	require.NoError(t, err)

	// Raising to the full stock is allowed: the replacement frees the
	// quantity the line already reserved.
	view, err := svc.UpdateItem(ctx, "sess-1", UpdateItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, view.Items[0].Quantity)

	_, err = svc.UpdateItem(ctx, "sess-1", UpdateItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 6})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
}

func TestUpdateItemZeroRemoves(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.UpdateItem(ctx, "sess-1", UpdateItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.Equal(decimal.Zero))
}

func TestUpdateItemAbsentPair(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))

	_, err := svc.UpdateItem(context.Background(), "sess-1", UpdateItemInput{
		ProductID: productID, Size: enums.Size250ml, Quantity: 2,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRemoveAndClear(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, "sess-1", productID, enums.Size250ml)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 1})
	require.NoError(t, err)
	view, err = svc.ClearCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	reloaded, err := svc.ViewCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, reloaded.Items, "clear must drop the persisted cart too")
}

func TestTogglePanel(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	view, err := svc.TogglePanel(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, view.IsOpen)

	view, err = svc.TogglePanel(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, view.IsOpen)
}

func TestAvailabilityFallsBackToLastSnapshot(t *testing.T) {
	productID := uuid.New()
	inventory := stockedInventory(productID, 5)
	svc := newTestService(t, inventory)
	ctx := context.Background()

	// Seed the cache with a successful fetch, then fail refreshes.
	_, err := svc.Availability(ctx, "sess-1", productID)
	require.NoError(t, err)
	inventory.refreshErr = errors.New("db down")

	view, err := svc.Availability(ctx, "sess-1", productID)
	require.NoError(t, err)
	require.Len(t, view.Sizes, 1)
	assert.Equal(t, 5, view.Sizes[0].AvailableToPromise)
}

func TestAvailabilityWithoutAnySnapshotFailsSafe(t *testing.T) {
	productID := uuid.New()
	inventory := stockedInventory(productID, 5)
	inventory.refreshErr = errors.New("db down")
	svc := newTestService(t, inventory)

	view, err := svc.Availability(context.Background(), "sess-1", productID)
	require.NoError(t, err)
	assert.False(t, view.Available, "no snapshot means nothing is promised")
	assert.Empty(t, view.Sizes)
}

func TestCheckoutBuildsOrder(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, stockedInventory(productID, 5))
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "sess-1", AddItemInput{ProductID: productID, Size: enums.Size250ml, Quantity: 2})
	require.NoError(t, err)

	order, err := svc.Checkout(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.Link, "https://wa.me/5511961729140?text="))
	assert.Contains(t, order.Message, "*Pudim Tradicional*")
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(37)))

	view, err := svc.ViewCart(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, view.Items, "checkout hands the cart off to WhatsApp")
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestService(t, &fakeInventory{})
	_, err := svc.Checkout(context.Background(), "sess-1")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
