package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// InventoryRecord tracks stock and price for one (product, size) pair.
// The pair is unique; the storefront reads these rows as point-in-time
// snapshots, the admin panel is the only writer.
type InventoryRecord struct {
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	Size              enums.Size      `gorm:"column:size;primaryKey" json:"size"`
	AvailableQuantity int             `gorm:"column:available_quantity;not null;default:0" json:"available_quantity"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
