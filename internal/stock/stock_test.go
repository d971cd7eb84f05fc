package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type fakeCommitted map[string]int

func (f fakeCommitted) ItemQuantity(productID uuid.UUID, size enums.Size) int {
	return f[productID.String()+"/"+string(size)]
}

func snapshotWith(productID uuid.UUID, size enums.Size, qty int) *Snapshot {
	return NewSnapshot(productID, 1, map[enums.Size]Entry{
		size: {AvailableQuantity: qty, Price: decimal.NewFromFloat(18.50)},
	})
}

func TestAvailableToPromiseSubtractsCart(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	snap := snapshotWith(productID, enums.Size250ml, 5)
	committed := fakeCommitted{productID.String() + "/250ml": 2}

	if got := AvailableToPromise(snap, committed, productID, enums.Size250ml); got != 3 {
		t.Fatalf("expected 3 available to promise, got %d", got)
	}
}

func TestAvailableToPromiseClampsAtZero(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	snap := snapshotWith(productID, enums.Size250ml, 2)
	// Stock shrank under the cart between refreshes.
	committed := fakeCommitted{productID.String() + "/250ml": 5}

	if got := AvailableToPromise(snap, committed, productID, enums.Size250ml); got != 0 {
		t.Fatalf("expected clamp at zero, got %d", got)
	}
}

func TestAvailableToPromiseNilSnapshotFailsSafe(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	if got := AvailableToPromise(nil, fakeCommitted{}, productID, enums.Size250ml); got != 0 {
		t.Fatalf("nil snapshot must yield zero, got %d", got)
	}
	if SizeAvailable(nil, fakeCommitted{}, productID, enums.Size250ml) {
		t.Fatal("nil snapshot must report the size unavailable")
	}
	if ProductAvailable(nil, fakeCommitted{}, productID) {
		t.Fatal("nil snapshot must report the product unavailable")
	}
}

func TestProductAvailableAnySize(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	snap := NewSnapshot(productID, 1, map[enums.Size]Entry{
		enums.Size250ml:  {AvailableQuantity: 0},
		enums.Size500ml:  {AvailableQuantity: 1},
		enums.Size1000ml: {AvailableQuantity: 0},
	})

	if !ProductAvailable(snap, fakeCommitted{}, productID) {
		t.Fatal("one purchasable size must keep the product available")
	}

	exhausted := fakeCommitted{productID.String() + "/500ml": 1}
	if ProductAvailable(snap, exhausted, productID) {
		t.Fatal("product with every size exhausted must be unavailable")
	}
}

func TestCacheDiscardsStaleSnapshot(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	productID := uuid.New()

	// Two fetches issued in order; the replies arrive reversed.
	first := cache.NextSeq()
	second := cache.NextSeq()

	if !cache.Apply(NewSnapshot(productID, second, map[enums.Size]Entry{
		enums.Size250ml: {AvailableQuantity: 3},
	})) {
		t.Fatal("fresh snapshot must be accepted")
	}
	if cache.Apply(NewSnapshot(productID, first, map[enums.Size]Entry{
		enums.Size250ml: {AvailableQuantity: 9},
	})) {
		t.Fatal("stale snapshot must be discarded")
	}

	entry, _ := cache.Get(productID).Entry(enums.Size250ml)
	if entry.AvailableQuantity != 3 {
		t.Fatalf("held snapshot must be the later-issued fetch, got %d", entry.AvailableQuantity)
	}
}

func TestCacheIsolatesProducts(t *testing.T) {
	t.Parallel()

	cache := NewCache()
	a, b := uuid.New(), uuid.New()

	cache.Apply(NewSnapshot(a, cache.NextSeq(), map[enums.Size]Entry{enums.Size250ml: {AvailableQuantity: 1}}))
	if cache.Get(b) != nil {
		t.Fatal("snapshots must be held per product")
	}
}

func TestSelectionFlow(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	snap := snapshotWith(productID, enums.Size250ml, 5)
	committed := fakeCommitted{productID.String() + "/250ml": 2}
	sel := NewSelection(productID, snap, committed)

	if sel.State() != StateNoSize {
		t.Fatal("flow must start with no size selected")
	}
	if _, _, err := sel.Confirm(); err == nil {
		t.Fatal("confirm without a size must fail")
	}

	if err := sel.SelectSize(enums.Size250ml); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Quantity() != 1 {
		t.Fatalf("selecting a size must seed quantity 1, got %d", sel.Quantity())
	}
	if sel.AvailableToPromise() != 3 {
		t.Fatalf("expected 3 available to promise, got %d", sel.AvailableToPromise())
	}
	if sel.State() != StateValidated {
		t.Fatal("one unit within stock must validate")
	}

	// Clamp above the remaining quantity.
	sel.SetQuantity(4)
	if sel.Quantity() != 3 {
		t.Fatalf("quantity must clamp to available to promise, got %d", sel.Quantity())
	}

	size, qty, err := sel.Confirm()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != enums.Size250ml || qty != 3 {
		t.Fatalf("unexpected confirmed pair: %s x%d", size, qty)
	}
	if sel.State() != StateNoSize {
		t.Fatal("confirm must reset the flow")
	}
}

func TestSelectionExhaustedSize(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	snap := snapshotWith(productID, enums.Size250ml, 3)
	// The whole remaining stock already sits in the cart.
	committed := fakeCommitted{productID.String() + "/250ml": 3}
	sel := NewSelection(productID, snap, committed)

	if err := sel.SelectSize(enums.Size250ml); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Quantity() != 0 {
		t.Fatalf("exhausted size must seed quantity 0, got %d", sel.Quantity())
	}
	if sel.State() != StateSizeSelected {
		t.Fatal("exhausted size must not validate")
	}

	_, _, err := sel.Confirm()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInsufficientStock {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["available"] != 0 {
		t.Fatalf("error must carry the remaining quantity, got %v", typed.Details())
	}
}

func TestSelectionRejectsUnknownAndUnofferedSizes(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	sel := NewSelection(productID, snapshotWith(productID, enums.Size250ml, 5), fakeCommitted{})

	if err := sel.SelectSize(enums.Size("2l")); pkgerrors.As(err) == nil {
		t.Fatal("unknown size must be rejected")
	}
	if err := sel.SelectSize(enums.Size500ml); pkgerrors.As(err) == nil {
		t.Fatal("size missing from the snapshot must be rejected")
	}
	if sel.State() != StateNoSize {
		t.Fatal("rejected selections must not advance the flow")
	}
}

func TestSelectionSizeSwitchRestartsQuantity(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	snap := NewSnapshot(productID, 1, map[enums.Size]Entry{
		enums.Size250ml: {AvailableQuantity: 5},
		enums.Size500ml: {AvailableQuantity: 2},
	})
	sel := NewSelection(productID, snap, fakeCommitted{})

	if err := sel.SelectSize(enums.Size250ml); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sel.SetQuantity(4)

	if err := sel.SelectSize(enums.Size500ml); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Quantity() != 1 {
		t.Fatalf("switching size must restart the quantity, got %d", sel.Quantity())
	}
}

func TestSelectionSetQuantityBeforeSizeIsNoop(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	sel := NewSelection(productID, snapshotWith(productID, enums.Size250ml, 5), fakeCommitted{})
	sel.SetQuantity(3)
	if sel.Quantity() != 0 || sel.State() != StateNoSize {
		t.Fatal("quantity changes require a selected size")
	}
}
