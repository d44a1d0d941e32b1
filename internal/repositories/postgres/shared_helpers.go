package postgres

import (
	"gorm.io/gorm"

	"github.com/pulseform/feedback-service/internal/repositories"
)

// SharedHelpers contains common query building operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyFormFilters applies the optional case-insensitive search over
// title and description
func (h *SharedHelpers) ApplyFormFilters(query *gorm.DB, filters repositories.FormFilters) *gorm.DB {
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	return query
}

// ApplyPagination applies limit and offset when set
func (h *SharedHelpers) ApplyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
