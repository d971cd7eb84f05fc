package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pudimaria/storefront-backend/internal/stock"
	"github.com/pudimaria/storefront-backend/pkg/db/models"
	"github.com/pudimaria/storefront-backend/pkg/enums"
	pkgerrors "github.com/pudimaria/storefront-backend/pkg/errors"
	"github.com/pudimaria/storefront-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Service exposes the catalog read paths used by the storefront and the
// write paths used by the admin panel.
type Service interface {
	ListProducts(ctx context.Context, input ListInput) ([]ProductView, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
	ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	Snapshot(ctx context.Context, productID uuid.UUID, seq uint64) (*stock.Snapshot, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductView, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	SetInventory(ctx context.Context, productID uuid.UUID, entries []InventoryInput) (*ProductView, error)
	Stats(ctx context.Context) (Stats, error)
}

type transactor interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	dbClient transactor
	logg     *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient transactor, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

// ListProducts returns the storefront listing. Every product is returned,
// exhausted ones included; Available tells the storefront to disable the
// purchase entry points.
func (s *service) ListProducts(ctx context.Context, input ListInput) ([]ProductView, error) {
	rows, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list products")
	}

	views := make([]ProductView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toView(&row))
	}
	return views, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toView(product)
	return &view, nil
}

func (s *service) ProductNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names, err := s.repo.ProductNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to resolve product names")
	}
	return names, nil
}

// Snapshot reads the product's inventory into an immutable point-in-time
// snapshot tagged with the caller's fetch sequence.
func (s *service) Snapshot(ctx context.Context, productID uuid.UUID, seq uint64) (*stock.Snapshot, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	entries := make(map[enums.Size]stock.Entry, len(product.Inventory))
	for _, record := range product.Inventory {
		entries[record.Size] = stock.Entry{
			AvailableQuantity: record.AvailableQuantity,
			Price:             record.Price,
		}
	}
	return stock.NewSnapshot(productID, seq, entries), nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductView, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateInventory(input.Inventory); err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Image:       input.Image,
			Featured:    input.Featured,
			IsNew:       input.IsNew,
		}
		if _, err := txRepo.CreateProduct(ctx, product); err != nil {
			return err
		}
		createdID = product.ID

		return upsertEntries(ctx, txRepo, product.ID, input.Inventory)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create product")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, createdID.String()), "product created")
	}
	return s.GetProduct(ctx, createdID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductView, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Image != nil {
		product.Image = *input.Image
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	if input.IsNew != nil {
		product.IsNew = *input.IsNew
	}

	// Inventory rows are managed through SetInventory; Save must not touch them.
	product.Inventory = nil
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update product")
	}
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete product")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, id.String()), "product deleted")
	}
	return nil
}

// SetInventory replaces the product's per-size stock with the submitted
// entries: listed pairs are upserted, unlisted pairs are removed.
func (s *service) SetInventory(ctx context.Context, productID uuid.UUID, entries []InventoryInput) (*ProductView, error) {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := validateInventory(entries); err != nil {
		return nil, err
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := upsertEntries(ctx, txRepo, productID, entries); err != nil {
			return err
		}

		keep := make([]string, 0, len(entries))
		for _, entry := range entries {
			keep = append(keep, string(entry.Size))
		}
		return txRepo.DeleteInventory(ctx, productID, keep)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to set inventory")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithProductID(ctx, productID.String()), "inventory replaced")
	}
	return s.GetProduct(ctx, productID)
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return Stats{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load stats")
	}
	return stats, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load product")
	}
	return product, nil
}

// upsertEntries writes every entry, collecting per-size failures so one bad
// row does not hide the rest from the error report.
func upsertEntries(ctx context.Context, repo *Repository, productID uuid.UUID, entries []InventoryInput) error {
	var errs error
	for _, entry := range entries {
		record := &models.InventoryRecord{
			ProductID:         productID,
			Size:              entry.Size,
			AvailableQuantity: entry.AvailableQuantity,
			Price:             entry.Price,
		}
		if err := repo.UpsertInventory(ctx, record); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("size %s: %w", entry.Size, err))
		}
	}
	return errs
}

func validateInventory(entries []InventoryInput) error {
	var errs error
	seen := make(map[enums.Size]bool, len(entries))
	for _, entry := range entries {
		switch {
		case !entry.Size.IsValid():
			errs = multierr.Append(errs, fmt.Errorf("unknown size %q", entry.Size))
		case seen[entry.Size]:
			errs = multierr.Append(errs, fmt.Errorf("duplicate size %s", entry.Size))
		default:
			seen[entry.Size] = true
		}
		if entry.AvailableQuantity < 0 {
			errs = multierr.Append(errs, fmt.Errorf("size %s: quantity cannot be negative", entry.Size))
		}
		if entry.Price.IsNegative() || entry.Price.IsZero() {
			errs = multierr.Append(errs, fmt.Errorf("size %s: price must be positive", entry.Size))
		}
	}
	if errs != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, errs, "invalid inventory payload").
			WithDetails(multierrMessages(errs))
	}
	return nil
}

func multierrMessages(err error) []string {
	split := multierr.Errors(err)
	messages := make([]string, 0, len(split))
	for _, e := range split {
		messages = append(messages, e.Error())
	}
	return messages
}

func toView(product *models.Product) ProductView {
	bySize := make(map[enums.Size]models.InventoryRecord, len(product.Inventory))
	for _, record := range product.Inventory {
		bySize[record.Size] = record
	}

	view := ProductView{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Image:       product.Image,
		Featured:    product.Featured,
		IsNew:       product.IsNew,
	}
	for _, size := range enums.SizesInDisplayOrder {
		record, ok := bySize[size]
		if !ok {
			continue
		}
		view.Sizes = append(view.Sizes, SizeOffer{
			Size:              size,
			Label:             size.Label(),
			Price:             record.Price,
			AvailableQuantity: record.AvailableQuantity,
		})
		if record.AvailableQuantity > 0 {
			view.Available = true
		}
	}
	return view
}
