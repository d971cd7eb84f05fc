package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is one pudim flavor on the storefront. Prices and stock live in
// InventoryRecord, keyed per size.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string            `gorm:"column:name;not null" json:"name"`
	Description string            `gorm:"column:description;not null" json:"description"`
	Image       string            `gorm:"column:image;not null" json:"image"`
	Featured    bool              `gorm:"column:featured;not null;default:false" json:"featured"`
	IsNew       bool              `gorm:"column:is_new;not null;default:false" json:"is_new"`
	Inventory   []InventoryRecord `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
