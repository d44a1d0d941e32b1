package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulseform/feedback-service/internal/cache"
	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
)

type FormPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewFormPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.FormRepository {
	return &FormPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cacheManager,
	}
}

// Create persists a new form and invalidates the owner's cached listings
func (f *FormPostgreSQL) Create(ctx context.Context, form *models.FeedbackForm) error {
	if err := f.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, f.cacheManager.Form, fmt.Sprintf("admin:%s:*", form.AdminID))

	return nil
}

// GetByID retrieves a form by ID with caching
func (f *FormPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.FeedbackForm, error) {
	cacheKey := fmt.Sprintf("id:%s", id)
	var form models.FeedbackForm

	err := f.cacheManager.Form.CacheOrExecute(ctx, cacheKey, &form, cache.FormCacheConfig.TTL, func() (interface{}, error) {
		var dbForm models.FeedbackForm
		if err := f.db.WithContext(ctx).First(&dbForm, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return &dbForm, nil
	})
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// UpdateStatus flips the active flag and invalidates every cached view
// of the form
func (f *FormPostgreSQL) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	var form models.FeedbackForm
	if err := f.db.WithContext(ctx).Select("id", "admin_id").First(&form, "id = ?", id).Error; err != nil {
		return err
	}

	err := f.db.WithContext(ctx).
		Model(&models.FeedbackForm{}).
		Where("id = ?", id).
		Update("is_active", isActive).Error
	if err != nil {
		return fmt.Errorf("failed to update form status: %w", err)
	}

	cache.InvalidateFormCache(ctx, f.cacheManager, id, form.AdminID)

	return nil
}

// Delete hard deletes a form. Responses are removed separately inside
// the same transaction by the service layer.
func (f *FormPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	var form models.FeedbackForm
	if err := f.db.WithContext(ctx).Select("id", "admin_id").First(&form, "id = ?", id).Error; err != nil {
		return err
	}

	if err := f.db.WithContext(ctx).Delete(&models.FeedbackForm{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}

	cache.InvalidateFormCache(ctx, f.cacheManager, id, form.AdminID)

	return nil
}

// formPage is the cached shape of one listing page.
type formPage struct {
	Forms []*models.FeedbackForm `json:"forms"`
	Total int64                  `json:"total"`
}

// ListByAdmin returns one page of the admin's forms, newest first. Pages
// are cached per (owner, filters) under the admin:<id>:* namespace that
// form writes invalidate.
func (f *FormPostgreSQL) ListByAdmin(ctx context.Context, adminID uuid.UUID, filters repositories.FormFilters) ([]*models.FeedbackForm, int64, error) {
	cacheKey := fmt.Sprintf("admin:%s:list:%d:%d:%s", adminID, filters.Limit, filters.Offset, filters.Search)
	var page formPage

	err := f.cacheManager.Form.CacheOrExecute(ctx, cacheKey, &page, cache.FormCacheConfig.TTL, func() (interface{}, error) {
		query := f.db.WithContext(ctx).
			Model(&models.FeedbackForm{}).
			Where("admin_id = ?", adminID)
		query = f.helpers.ApplyFormFilters(query, filters)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count forms: %w", err)
		}

		var forms []*models.FeedbackForm
		err := f.helpers.ApplyPagination(query.Order("created_at DESC"), filters.Limit, filters.Offset).
			Find(&forms).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list forms: %w", err)
		}

		return &formPage{Forms: forms, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	return page.Forms, page.Total, nil
}

// Exists checks form existence with a short-lived cache
func (f *FormPostgreSQL) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	cacheKey := fmt.Sprintf("form:%s", id)
	var exists bool

	err := f.cacheManager.Exists.CacheOrExecute(ctx, cacheKey, &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		err := f.db.WithContext(ctx).
			Model(&models.FeedbackForm{}).
			Where("id = ?", id).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check form existence: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return exists, nil
}
