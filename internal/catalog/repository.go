package catalog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together product and inventory persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListProducts returns catalog rows matching the search and filter, newest
// first, with inventory preloaded. Search matches name or description.
func (r *Repository) ListProducts(ctx context.Context, input ListInput) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).
		Preload("Inventory")

	if search := strings.TrimSpace(input.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	switch input.Filter {
	case FilterNew:
		qb = qb.Where("is_new = ?", true)
	case FilterFeatured:
		qb = qb.Where("featured = ?", true)
	}

	var rows []models.Product
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindProduct loads one product with its inventory.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Inventory").
		First(&product, "id = ?", id).
		Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductNames resolves display names for the given product ids.
func (r *Repository) ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	type nameRow struct {
		ID   uuid.UUID
		Name string
	}
	var rows []nameRow
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Scan(&rows).
		Error; err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID; inventory rows cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ListInventory returns the inventory rows for a product.
func (r *Repository) ListInventory(ctx context.Context, productID uuid.UUID) ([]models.InventoryRecord, error) {
	var rows []models.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&rows).
		Error
	return rows, err
}

// UpsertInventory creates or updates the stock row for a (product, size) pair.
func (r *Repository) UpsertInventory(ctx context.Context, record *models.InventoryRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "size"}},
			DoUpdates: clause.AssignmentColumns([]string{"available_quantity", "price", "updated_at"}),
		}).
		Create(record).
		Error
}

// DeleteInventory removes the stock rows for a product not in keep.
func (r *Repository) DeleteInventory(ctx context.Context, productID uuid.UUID, keep []string) error {
	qb := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if len(keep) > 0 {
		qb = qb.Where("size NOT IN ?", keep)
	}
	return qb.Delete(&models.InventoryRecord{}).Error
}

// Stats aggregates the dashboard counters in two queries.
func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Count(&stats.Products).
		Error; err != nil {
		return Stats{}, err
	}

	type inventoryRow struct {
		Units     sql.NullInt64
		Exhausted sql.NullInt64
	}
	var row inventoryRow
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryRecord{}).
		Select("COALESCE(SUM(available_quantity), 0) AS units, " +
			"COALESCE(SUM(CASE WHEN available_quantity = 0 THEN 1 ELSE 0 END), 0) AS exhausted").
		Scan(&row).
		Error; err != nil {
		return Stats{}, err
	}
	stats.StockUnits = row.Units.Int64
	stats.OutOfStockSizes = row.Exhausted.Int64
	return stats, nil
}
