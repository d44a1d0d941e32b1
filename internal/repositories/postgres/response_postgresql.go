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

type ResponsePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewResponsePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ResponseRepository {
	return &ResponsePostgreSQL{
		db:           db,
		cacheManager: cacheManager,
	}
}

// Create persists a submission. A unique-constraint violation on
// (form_id, submitted_by) bubbles up as gorm.ErrDuplicatedKey for the
// service layer to translate.
func (r *ResponsePostgreSQL) Create(ctx context.Context, response *models.FeedbackResponse) error {
	if err := r.db.WithContext(ctx).Create(response).Error; err != nil {
		return err
	}

	cache.InvalidateAnalyticsCache(ctx, r.cacheManager, response.FormID)

	return nil
}

// GetByForm returns every response for a form in submission order
func (r *ResponsePostgreSQL) GetByForm(ctx context.Context, formID uuid.UUID) ([]*models.FeedbackResponse, error) {
	var responses []*models.FeedbackResponse
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at ASC").
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	return responses, nil
}

func (r *ResponsePostgreSQL) CountByForm(ctx context.Context, formID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeedbackResponse{}).
		Where("form_id = ?", formID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

func (r *ResponsePostgreSQL) ExistsByFormAndSubmitter(ctx context.Context, formID uuid.UUID, submittedBy string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FeedbackResponse{}).
		Where("form_id = ? AND submitted_by = ?", formID, submittedBy).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing submission: %w", err)
	}
	return count > 0, nil
}

// DeleteByForm removes every response of a form, used when the form
// itself is deleted.
func (r *ResponsePostgreSQL) DeleteByForm(ctx context.Context, formID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Delete(&models.FeedbackResponse{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete responses: %w", err)
	}

	cache.InvalidateAnalyticsCache(ctx, r.cacheManager, formID)

	return nil
}
