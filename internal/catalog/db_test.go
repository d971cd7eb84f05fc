package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/db/models"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps every pooled connection on the same
	// schema while isolating tests from each other.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image TEXT NOT NULL DEFAULT '',
  featured INTEGER NOT NULL DEFAULT 0,
  is_new INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	inventory := `
CREATE TABLE IF NOT EXISTS inventory_records (
  product_id TEXT NOT NULL,
  size TEXT NOT NULL,
  available_quantity INTEGER NOT NULL DEFAULT 0,
  price TEXT NOT NULL,
  updated_at DATETIME,
  PRIMARY KEY (product_id, size)
);`
	require.NoError(t, conn.Exec(products).Error)
	require.NoError(t, conn.Exec(inventory).Error)
	return conn
}

func mustInsertProduct(t *testing.T, conn *gorm.DB, name, description string, featured, isNew bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Image:       "https://cdn.example.com/" + uuid.NewString() + ".jpg",
		Featured:    featured,
		IsNew:       isNew,
		CreatedAt:   createdAt,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func mustInsertInventory(t *testing.T, conn *gorm.DB, productID uuid.UUID, size enums.Size, qty int, price float64) {
	t.Helper()
	require.NoError(t, conn.Create(&models.InventoryRecord{
		ProductID:         productID,
		Size:              size,
		AvailableQuantity: qty,
		Price:             decimal.NewFromFloat(price),
	}).Error)
}
