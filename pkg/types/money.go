package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatBRL renders a price the way the storefront prints it: "R$ 35.00".
func FormatBRL(value decimal.Decimal) string {
	return fmt.Sprintf("R$ %s", value.StringFixed(2))
}

// ParsePrice converts raw admin input into a non-negative decimal price.
func ParsePrice(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("price cannot be negative")
	}
	return value, nil
}
