package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
)

// MockRepository is an in-memory Repository for service tests.
type MockRepository struct {
	AdminRepo    *MockAdminRepository
	FormRepo     *MockFormRepository
	ResponseRepo *MockResponseRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		AdminRepo:    &MockAdminRepository{admins: make(map[uuid.UUID]*models.Admin)},
		FormRepo:     &MockFormRepository{forms: make(map[uuid.UUID]*models.FeedbackForm)},
		ResponseRepo: &MockResponseRepository{},
	}
}

func (m *MockRepository) Admin() repositories.AdminRepository       { return m.AdminRepo }
func (m *MockRepository) Form() repositories.FormRepository         { return m.FormRepo }
func (m *MockRepository) Response() repositories.ResponseRepository { return m.ResponseRepo }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// ===== ADMIN =====

type MockAdminRepository struct {
	admins map[uuid.UUID]*models.Admin
}

func (m *MockAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	for _, existing := range m.admins {
		if strings.EqualFold(existing.Email, admin.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	admin.CreatedAt = time.Now()
	m.admins[admin.ID] = admin
	return nil
}

func (m *MockAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	admin, ok := m.admins[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, admin := range m.admins {
		if strings.EqualFold(admin.Email, email) {
			return admin, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

// ===== FORM =====

type MockFormRepository struct {
	forms map[uuid.UUID]*models.FeedbackForm
}

func (m *MockFormRepository) Create(ctx context.Context, form *models.FeedbackForm) error {
	if form.ID == uuid.Nil {
		form.ID = uuid.New()
	}
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	m.forms[form.ID] = form
	return nil
}

func (m *MockFormRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FeedbackForm, error) {
	form, ok := m.forms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *form
	return &copied, nil
}

func (m *MockFormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	form, ok := m.forms[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	form.IsActive = isActive
	form.UpdatedAt = time.Now()
	return nil
}

func (m *MockFormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.forms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.forms, id)
	return nil
}

func (m *MockFormRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID, filters repositories.FormFilters) ([]*models.FeedbackForm, int64, error) {
	var matched []*models.FeedbackForm
	for _, form := range m.forms {
		if form.AdminID != adminID {
			continue
		}
		if filters.Search != "" {
			search := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(form.Title), search) &&
				!strings.Contains(strings.ToLower(form.Description), search) {
				continue
			}
		}
		matched = append(matched, form)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filters.Offset > 0 {
		if filters.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(matched) > filters.Limit {
		matched = matched[:filters.Limit]
	}

	return matched, total, nil
}

func (m *MockFormRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.forms[id]
	return ok, nil
}

// ===== RESPONSE =====

type MockResponseRepository struct {
	responses []*models.FeedbackResponse
}

func (m *MockResponseRepository) Create(ctx context.Context, response *models.FeedbackResponse) error {
	for _, existing := range m.responses {
		if existing.FormID == response.FormID && existing.SubmittedBy == response.SubmittedBy {
			return gorm.ErrDuplicatedKey
		}
	}
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}
	m.responses = append(m.responses, response)
	return nil
}

func (m *MockResponseRepository) GetByForm(ctx context.Context, formID uuid.UUID) ([]*models.FeedbackResponse, error) {
	var out []*models.FeedbackResponse
	for _, r := range m.responses {
		if r.FormID == formID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockResponseRepository) CountByForm(ctx context.Context, formID uuid.UUID) (int64, error) {
	out, _ := m.GetByForm(ctx, formID)
	return int64(len(out)), nil
}

func (m *MockResponseRepository) ExistsByFormAndSubmitter(ctx context.Context, formID uuid.UUID, submittedBy string) (bool, error) {
	for _, r := range m.responses {
		if r.FormID == formID && r.SubmittedBy == submittedBy {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockResponseRepository) DeleteByForm(ctx context.Context, formID uuid.UUID) error {
	var kept []*models.FeedbackResponse
	for _, r := range m.responses {
		if r.FormID != formID {
			kept = append(kept, r)
		}
	}
	m.responses = kept
	return nil
}

// testLogger discards output to keep test runs quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
