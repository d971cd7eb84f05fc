package stock

import (
	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
)

// SelectionState is the purchase-flow phase of a product detail view.
type SelectionState int

const (
	// StateNoSize is the entry state: no size chosen, quantity controls hidden.
	StateNoSize SelectionState = iota
	// StateSizeSelected has a size but no purchasable quantity yet.
	StateSizeSelected
	// StateValidated has a size and a quantity within available-to-promise.
	StateValidated
)

// Selection drives the size-and-quantity flow for one product. It is bound
// to the snapshot and cart that were current when the view opened; every
// quantity decision re-derives available-to-promise from those.
type Selection struct {
	productID uuid.UUID
	snap      *Snapshot
	committed committedQuantities

	size    enums.Size
	hasSize bool
	qty     int
}

// NewSelection opens the flow in the no-size state.
func NewSelection(productID uuid.UUID, snap *Snapshot, committed committedQuantities) *Selection {
	return &Selection{productID: productID, snap: snap, committed: committed}
}

// State derives the current phase from the held size and quantity.
func (s *Selection) State() SelectionState {
	if !s.hasSize {
		return StateNoSize
	}
	if s.qty >= 1 && s.qty <= s.atp() {
		return StateValidated
	}
	return StateSizeSelected
}

// Size returns the chosen size and whether one is chosen.
func (s *Selection) Size() (enums.Size, bool) {
	return s.size, s.hasSize
}

// Quantity returns the pending quantity.
func (s *Selection) Quantity() int {
	return s.qty
}

// AvailableToPromise exposes the remaining purchasable quantity for the
// chosen size, zero when no size is chosen.
func (s *Selection) AvailableToPromise() int {
	if !s.hasSize {
		return 0
	}
	return s.atp()
}

// SelectSize chooses a size and seeds the quantity to one unit, or zero
// when nothing is purchasable. Re-selecting a size restarts the quantity.
func (s *Selection) SelectSize(size enums.Size) error {
	if !size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown size")
	}
	if _, ok := s.snap.Entry(size); !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "size not offered for this product")
	}
	s.size = size
	s.hasSize = true
	s.qty = min(1, s.atp())
	return nil
}

// SetQuantity adjusts the pending quantity, clamped into [0, availableToPromise].
// It is a no-op before a size is chosen.
func (s *Selection) SetQuantity(qty int) {
	if !s.hasSize {
		return
	}
	if qty < 0 {
		qty = 0
	}
	if limit := s.atp(); qty > limit {
		qty = limit
	}
	s.qty = qty
}

// Confirm finishes the flow: it checks the pending pair against
// available-to-promise one last time, resets the selection, and hands the
// (size, quantity) pair to the caller to commit into the cart. An exhausted
// or over-asked pair is rejected with the remaining quantity in the error
// details.
func (s *Selection) Confirm() (enums.Size, int, error) {
	if !s.hasSize {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "choose a size first")
	}
	limit := s.atp()
	if s.qty < 1 || s.qty > limit {
		return "", 0, pkgerrors.InsufficientStock(limit)
	}
	size, qty := s.size, s.qty
	s.Reset()
	return size, qty, nil
}

// Reset returns the flow to the no-size entry state.
func (s *Selection) Reset() {
	s.size = ""
	s.hasSize = false
	s.qty = 0
}

func (s *Selection) atp() int {
	return AvailableToPromise(s.snap, s.committed, s.productID, s.size)
}
