package catalog

import (
	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Filter narrows the storefront listing.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterNew      Filter = "new"
	FilterFeatured Filter = "featured"
)

// ParseFilter converts raw query input into a Filter; empty means all.
func ParseFilter(value string) (Filter, error) {
	switch Filter(value) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterNew:
		return FilterNew, nil
	case FilterFeatured:
		return FilterFeatured, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "filter must be one of all, new, featured")
}

// ListInput holds the storefront listing parameters.
type ListInput struct {
	Search string
	Filter Filter
}

// SizeOffer is one purchasable size of a product as the storefront sees it.
type SizeOffer struct {
	Size              enums.Size      `json:"size"`
	Label             string          `json:"label"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"available_quantity"`
}

// ProductView is the catalog read model: the product row joined with its
// per-size inventory in display order.
type ProductView struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Featured    bool        `json:"featured"`
	IsNew       bool        `json:"is_new"`
	Available   bool        `json:"available"`
	Sizes       []SizeOffer `json:"sizes"`
}

// InventoryInput is one per-size stock row submitted from the admin panel.
type InventoryInput struct {
	Size              enums.Size
	AvailableQuantity int
	Price             decimal.Decimal
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Image       string
	Featured    bool
	IsNew       bool
	Inventory   []InventoryInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Image       *string
	Featured    *bool
	IsNew       *bool
}

// Stats is the admin dashboard summary.
type Stats struct {
	Products        int64 `json:"products"`
	StockUnits      int64 `json:"stock_units"`
	OutOfStockSizes int64 `json:"out_of_stock_sizes"`
}
