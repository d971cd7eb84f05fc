package stock

import (
	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
)

// committedQuantities is the bridge into the cart: how many units of a
// (product, size) pair the session has already placed in its cart.
type committedQuantities interface {
	ItemQuantity(productID uuid.UUID, size enums.Size) int
}

// AvailableToPromise computes the quantity still purchasable for the pair:
// last-known stock minus the cart-committed quantity, clamped at zero. The
// cart quantity acts as a client-side provisional reservation against the
// snapshot; no server-side hold exists. A nil snapshot (fetch pending or
// failed) yields 0: fail safe, never fail open.
func AvailableToPromise(snap *Snapshot, committed committedQuantities, productID uuid.UUID, size enums.Size) int {
	entry, ok := snap.Entry(size)
	if !ok {
		return 0
	}
	remaining := entry.AvailableQuantity
	if committed != nil {
		remaining -= committed.ItemQuantity(productID, size)
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SizeAvailable reports whether the size can still be added to the cart.
func SizeAvailable(snap *Snapshot, committed committedQuantities, productID uuid.UUID, size enums.Size) bool {
	return AvailableToPromise(snap, committed, productID, size) > 0
}

// ProductAvailable reports whether any size of the product is purchasable.
// A fully exhausted product stays visible in the catalog; only its purchase
// entry points are disabled.
func ProductAvailable(snap *Snapshot, committed committedQuantities, productID uuid.UUID) bool {
	for _, size := range snap.Sizes() {
		if SizeAvailable(snap, committed, productID, size) {
			return true
		}
	}
	return false
}
