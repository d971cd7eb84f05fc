package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type fakePersistence struct {
	data    map[string]string
	getErr  error
	setErr  error
	setHits int
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{data: map[string]string{}}
}

func (f *fakePersistence) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setHits++
	f.data[key] = value.(string)
	return nil
}

func (f *fakePersistence) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (f *fakePersistence) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakePersistence) CartKey(sessionID string) string {
	return "test:cart:" + sessionID
}

func TestSessionStoreRoundTrip(t *testing.T) {
	t.Parallel()

	backend := newFakePersistence()
	store := NewSessionStore(backend, time.Hour, nil)
	ctx := context.Background()

	c := New()
	productID := uuid.New()
	if err := c.Add(productID, enums.Size250ml, 2, decimal.NewFromFloat(18.50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Save(ctx, "sess-1", c)

	restored := store.Load(ctx, "sess-1")
	if len(restored.Items) != 1 {
		t.Fatalf("expected one restored item, got %d", len(restored.Items))
	}
	if restored.ItemQuantity(productID, enums.Size250ml) != 2 {
		t.Fatal("restored quantity mismatch")
	}
	if !restored.Items[0].UnitPrice.Equal(decimal.NewFromFloat(18.50)) {
		t.Fatalf("restored price mismatch: %s", restored.Items[0].UnitPrice)
	}
	if !restored.IsOpen {
		t.Fatal("panel state should round-trip")
	}
}

func TestSessionStoreLoadMissingYieldsEmpty(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(newFakePersistence(), time.Hour, nil)
	c := store.Load(context.Background(), "unknown")
	if !c.IsEmpty() {
		t.Fatal("missing session must yield an empty cart")
	}
}

func TestSessionStoreLoadFailureYieldsEmpty(t *testing.T) {
	t.Parallel()

	backend := newFakePersistence()
	backend.getErr = errors.New("redis down")
	store := NewSessionStore(backend, time.Hour, nil)

	c := store.Load(context.Background(), "sess-1")
	if !c.IsEmpty() {
		t.Fatal("read failure must fail safe to an empty cart")
	}
}

func TestSessionStoreLoadCorruptPayloadYieldsEmpty(t *testing.T) {
	t.Parallel()

	backend := newFakePersistence()
	backend.data[backend.CartKey("sess-1")] = "{not json"
	store := NewSessionStore(backend, time.Hour, nil)

	c := store.Load(context.Background(), "sess-1")
	if !c.IsEmpty() {
		t.Fatal("corrupt payload must fail safe to an empty cart")
	}
}

func TestSessionStoreSaveFailureNonFatal(t *testing.T) {
	t.Parallel()

	backend := newFakePersistence()
	backend.setErr = errors.New("redis down")
	store := NewSessionStore(backend, time.Hour, nil)

	c := New()
	if err := c.Add(uuid.New(), enums.Size250ml, 1, decimal.NewFromFloat(18.50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Save(context.Background(), "sess-1", c)

	// The in-memory cart must remain intact after a failed write.
	if c.IsEmpty() {
		t.Fatal("in-memory cart must survive a persistence failure")
	}
}

func TestSessionStoreDrop(t *testing.T) {
	t.Parallel()

	backend := newFakePersistence()
	store := NewSessionStore(backend, time.Hour, nil)
	ctx := context.Background()

	c := New()
	if err := c.Add(uuid.New(), enums.Size250ml, 1, decimal.NewFromFloat(18.50)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Save(ctx, "sess-1", c)
	store.Drop(ctx, "sess-1")

	if !store.Load(ctx, "sess-1").IsEmpty() {
		t.Fatal("dropped session must load empty")
	}
}

func TestSessionStoreNilBackend(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(nil, time.Hour, nil)
	ctx := context.Background()

	if !store.Load(ctx, "sess-1").IsEmpty() {
		t.Fatal("nil backend must load empty")
	}
	store.Save(ctx, "sess-1", New())
	store.Drop(ctx, "sess-1")
}
