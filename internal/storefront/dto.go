package storefront

import (
	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// AddItemInput is the validated payload for adding a (product, size) pair.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      enums.Size
	Quantity  int
}

// UpdateItemInput replaces the quantity of an existing pair.
type UpdateItemInput struct {
	ProductID uuid.UUID
	Size      enums.Size
	Quantity  int
}

// ItemView is one cart line as the storefront renders it.
type ItemView struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Size      enums.Size      `json:"size"`
	Label     string          `json:"label"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartView is the session cart plus its derived totals and panel state.
type CartView struct {
	Items  []ItemView      `json:"items"`
	Total  decimal.Decimal `json:"total"`
	IsOpen bool            `json:"is_open"`
}

// SizeAvailability is the per-size purchase state for one product as seen
// by this session: the remaining quantity already accounts for what the
// cart holds.
type SizeAvailability struct {
	Size               enums.Size      `json:"size"`
	Label              string          `json:"label"`
	Price              decimal.Decimal `json:"price"`
	AvailableToPromise int             `json:"available_to_promise"`
	Selectable         bool            `json:"selectable"`
}

// AvailabilityView drives the size selector on the product detail view.
type AvailabilityView struct {
	ProductID uuid.UUID          `json:"product_id"`
	Available bool               `json:"available"`
	Sizes     []SizeAvailability `json:"sizes"`
}
