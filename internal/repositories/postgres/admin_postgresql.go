package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
)

// AdminPostgreSQL stores admins without caching: credential lookups
// must always see the latest row.
type AdminPostgreSQL struct {
	db *gorm.DB
}

func NewAdminPostgreSQL(db *gorm.DB) repositories.AdminRepository {
	return &AdminPostgreSQL{db: db}
}

func (a *AdminPostgreSQL) Create(ctx context.Context, admin *models.Admin) error {
	admin.Email = normalizeEmail(admin.Email)
	if err := a.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

func (a *AdminPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := a.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *AdminPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := a.db.WithContext(ctx).First(&admin, "email = ?", normalizeEmail(email)).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (a *AdminPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check admin email: %w", err)
	}
	return count > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
