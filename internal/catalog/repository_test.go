package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/db/models"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryListProducts(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	classic := mustInsertProduct(t, conn, "Pudim Tradicional", "Receita clássica de leite condensado", false, false, base)
	chocolate := mustInsertProduct(t, conn, "Pudim de Chocolate", "Chocolate meio amargo", true, false, base.Add(time.Hour))
	coconut := mustInsertProduct(t, conn, "Pudim de Coco", "Coco fresco ralado", false, true, base.Add(2*time.Hour))
	mustInsertInventory(t, conn, classic.ID, enums.Size250ml, 5, 18.50)
	mustInsertInventory(t, conn, classic.ID, enums.Size500ml, 0, 35)

	all, err := repo.ListProducts(ctx, ListInput{Filter: FilterAll})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, coconut.ID, all[0].ID, "newest first")
	assert.Equal(t, classic.ID, all[2].ID)
	require.Len(t, all[2].Inventory, 2, "inventory must be preloaded")

	searched, err := repo.ListProducts(ctx, ListInput{Search: "CHOCO", Filter: FilterAll})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, chocolate.ID, searched[0].ID)

	byDescription, err := repo.ListProducts(ctx, ListInput{Search: "leite condensado", Filter: FilterAll})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, classic.ID, byDescription[0].ID)

	newOnly, err := repo.ListProducts(ctx, ListInput{Filter: FilterNew})
	require.NoError(t, err)
	require.Len(t, newOnly, 1)
	assert.Equal(t, coconut.ID, newOnly[0].ID)

	featuredOnly, err := repo.ListProducts(ctx, ListInput{Filter: FilterFeatured})
	require.NoError(t, err)
	require.Len(t, featuredOnly, 1)
	assert.Equal(t, chocolate.ID, featuredOnly[0].ID)
}

func TestRepositoryProductNames(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Now().UTC()
	classic := mustInsertProduct(t, conn, "Pudim Tradicional", "", false, false, now)
	_ = mustInsertProduct(t, conn, "Pudim de Coco", "", false, false, now)

	names, err := repo.ProductNames(ctx, []uuid.UUID{classic.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "Pudim Tradicional", names[classic.ID])

	empty, err := repo.ProductNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepositoryUpsertInventory(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustInsertProduct(t, conn, "Pudim Tradicional", "", false, false, time.Now().UTC())

	require.NoError(t, repo.UpsertInventory(ctx, &models.InventoryRecord{
		ProductID:         product.ID,
		Size:              enums.Size250ml,
		AvailableQuantity: 5,
		Price:             decimal.NewFromFloat(18.50),
	}))

	// Second write on the same pair updates in place.
	require.NoError(t, repo.UpsertInventory(ctx, &models.InventoryRecord{
		ProductID:         product.ID,
		Size:              enums.Size250ml,
		AvailableQuantity: 2,
		Price:             decimal.NewFromFloat(19.90),
	}))

	rows, err := repo.ListInventory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].AvailableQuantity)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromFloat(19.90)))
}

func TestRepositoryDeleteInventoryKeepsListedSizes(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	product := mustInsertProduct(t, conn, "Pudim Tradicional", "", false, false, time.Now().UTC())
	mustInsertInventory(t, conn, product.ID, enums.Size250ml, 5, 18.50)
	mustInsertInventory(t, conn, product.ID, enums.Size500ml, 3, 35)
	mustInsertInventory(t, conn, product.ID, enums.Size1000ml, 1, 60)

	require.NoError(t, repo.DeleteInventory(ctx, product.ID, []string{"250ml"}))

	rows, err := repo.ListInventory(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.Size250ml, rows[0].Size)

	require.NoError(t, repo.DeleteInventory(ctx, product.ID, nil))
	rows, err = repo.ListInventory(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryStats(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	now := time.Now().UTC()
	classic := mustInsertProduct(t, conn, "Pudim Tradicional", "", false, false, now)
	coconut := mustInsertProduct(t, conn, "Pudim de Coco", "", false, true, now)
	mustInsertInventory(t, conn, classic.ID, enums.Size250ml, 5, 18.50)
	mustInsertInventory(t, conn, classic.ID, enums.Size500ml, 0, 35)
	mustInsertInventory(t, conn, coconut.ID, enums.Size250ml, 7, 20)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Products)
	assert.Equal(t, int64(12), stats.StockUnits)
	assert.Equal(t, int64(1), stats.OutOfStockSizes)
}
