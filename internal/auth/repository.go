package auth

import (
	"context"
	"strings"

	"github.com/pudimaria/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// AdminRepository persists the admin accounts that can open the panel.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds a repository tied to the provided GORM DB.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail loads the admin account for the normalized email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).
		First(&admin, "email = ?", strings.ToLower(strings.TrimSpace(email))).
		Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin inserts a new admin account.
func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	admin.Email = strings.ToLower(strings.TrimSpace(admin.Email))
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}
