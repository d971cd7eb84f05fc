package cart

import (
	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// LineItem is one (product, size) entry with its quantity and the unit price
// captured at add time. The price is a snapshot; it is never re-fetched.
type LineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Size      enums.Size      `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity * unit price for the line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart holds the session's line items in insertion order plus the panel
// visibility flag. At most one line item exists per (product, size) pair and
// every stored quantity is >= 1.
type Cart struct {
	Items  []LineItem `json:"items"`
	IsOpen bool       `json:"is_open"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends a line item or, when the (product, size) pair is already
// present, increments its quantity. The unit price of an existing line is
// kept as captured on first add. Opens the cart panel.
func (c *Cart) Add(productID uuid.UUID, size enums.Size, quantity int, unitPrice decimal.Decimal) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid size")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}

	if idx := c.indexOf(productID, size); idx >= 0 {
		c.Items[idx].Quantity += quantity
	} else {
		c.Items = append(c.Items, LineItem{
			ProductID: productID,
			Size:      size,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		})
	}

	c.IsOpen = true
	return nil
}

// UpdateQuantity replaces the quantity of the matching line item. A value of
// zero or less removes the line; a non-positive quantity is never stored.
func (c *Cart) UpdateQuantity(productID uuid.UUID, size enums.Size, quantity int) {
	if quantity <= 0 {
		c.Remove(productID, size)
		return
	}
	if idx := c.indexOf(productID, size); idx >= 0 {
		c.Items[idx].Quantity = quantity
	}
}

// Remove deletes the matching line item. Removing an absent pair is a no-op.
func (c *Cart) Remove(productID uuid.UUID, size enums.Size) {
	idx := c.indexOf(productID, size)
	if idx < 0 {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

// Clear empties the line item collection.
func (c *Cart) Clear() {
	c.Items = nil
}

// Toggle flips the panel visibility flag.
func (c *Cart) Toggle() {
	c.IsOpen = !c.IsOpen
}

// ItemQuantity returns the quantity committed for the pair, or 0 when absent.
// Stock reconciliation subtracts this from the inventory snapshot so repeated
// adds cannot reserve the same stock twice.
func (c *Cart) ItemQuantity(productID uuid.UUID, size enums.Size) int {
	if idx := c.indexOf(productID, size); idx >= 0 {
		return c.Items[idx].Quantity
	}
	return 0
}

// Total recomputes the grand total from the current line items on every call.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsEmpty reports whether the cart holds no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) indexOf(productID uuid.UUID, size enums.Size) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}
