package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/pulseform/feedback-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// FormFilters narrows and pages a form listing. Search matches title or
// description case-insensitively.
type FormFilters struct {
	Search string `json:"search"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ===== FORM REPOSITORY =====

type FormRepository interface {
	Create(ctx context.Context, form *models.FeedbackForm) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.FeedbackForm, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByAdmin returns one page of the admin's forms, newest first,
	// along with the unpaged total.
	ListByAdmin(ctx context.Context, adminID uuid.UUID, filters FormFilters) ([]*models.FeedbackForm, int64, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// ===== RESPONSE REPOSITORY =====

type ResponseRepository interface {
	Create(ctx context.Context, response *models.FeedbackResponse) error

	// GetByForm returns every response for a form in submission order.
	GetByForm(ctx context.Context, formID uuid.UUID) ([]*models.FeedbackResponse, error)

	CountByForm(ctx context.Context, formID uuid.UUID) (int64, error)
	ExistsByFormAndSubmitter(ctx context.Context, formID uuid.UUID, submittedBy string) (bool, error)
	DeleteByForm(ctx context.Context, formID uuid.UUID) error
}

// ===== ADMIN REPOSITORY =====

type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
