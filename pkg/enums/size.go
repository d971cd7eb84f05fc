package enums

import "fmt"

// Size is the closed set of pudim jar volumes sold by the storefront.
type Size string

const (
	Size80ml   Size = "80ml"
	Size120ml  Size = "120ml"
	Size250ml  Size = "250ml"
	Size500ml  Size = "500ml"
	Size1000ml Size = "1000ml"
)

// SizesInDisplayOrder lists every size from Individual up to Família.
var SizesInDisplayOrder = []Size{
	Size80ml,
	Size120ml,
	Size250ml,
	Size500ml,
	Size1000ml,
}

var sizeLabels = map[Size]string{
	Size80ml:   "Individual",
	Size120ml:  "Pequeno",
	Size250ml:  "Médio",
	Size500ml:  "Grande",
	Size1000ml: "Família",
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Size.
func (s Size) IsValid() bool {
	_, ok := sizeLabels[s]
	return ok
}

// Label returns the storefront display label for the size.
func (s Size) Label() string {
	return sizeLabels[s]
}

// ParseSize converts raw input into a Size.
func ParseSize(value string) (Size, error) {
	for _, candidate := range SizesInDisplayOrder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size %q", value)
}
