package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pulseform/feedback-service/internal/events"
	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
	"github.com/pulseform/feedback-service/internal/validator"
)

type formService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewFormService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.Publisher) FormService {
	return &formService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Create validates and persists a new form. All text fields are trimmed
// before storage; new forms start active.
func (s *formService) Create(ctx context.Context, adminID uuid.UUID, req *FormCreateRequest) (*FormSummary, error) {
	if errs := s.validator.Business().ValidateFormCreate(req); errs.HasErrors() {
		return nil, errs
	}

	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			options = append(options, strings.TrimSpace(opt))
		}
		if len(options) == 0 {
			options = nil
		}

		isRequired := false
		if q.IsRequired != nil {
			isRequired = *q.IsRequired
		}

		questions[i] = models.Question{
			QuestionText: strings.TrimSpace(q.QuestionText),
			QuestionType: q.QuestionType,
			Options:      options,
			IsRequired:   isRequired,
		}
	}

	form := &models.FeedbackForm{
		AdminID:     adminID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Questions:   datatypes.NewJSONSlice(questions),
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := s.repo.Form().Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.publishFormEvent(ctx, events.FormCreated, form)
	s.logger.Info("form created", "form_id", form.ID, "admin_id", adminID)

	return formSummary(form), nil
}

// GetByID is the public form fetch used by respondents.
func (s *formService) GetByID(ctx context.Context, formID string) (*models.FeedbackForm, error) {
	id, err := parseFormID(formID)
	if err != nil {
		return nil, err
	}

	form, err := s.repo.Form().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	return form, nil
}

// ToggleStatus flips the active flag. Only the owner may do this; the
// operation is idempotent.
func (s *formService) ToggleStatus(ctx context.Context, formID string, isActive bool, callerID uuid.UUID) (*FormSummary, error) {
	form, err := s.getOwnedForm(ctx, formID, callerID, "update")
	if err != nil {
		return nil, err
	}

	if form.IsActive != isActive {
		if err := s.repo.Form().UpdateStatus(ctx, form.ID, isActive); err != nil {
			if repositories.IsNotFound(err) {
				return nil, ErrFormNotFound
			}
			return nil, fmt.Errorf("failed to update form status: %w", err)
		}
		form.IsActive = isActive
		s.publishFormEvent(ctx, events.FormStatusChanged, form)
	}

	s.logger.Info("form status set", "form_id", form.ID, "is_active", isActive)

	return formSummary(form), nil
}

// Delete removes a form together with its responses in one transaction.
func (s *formService) Delete(ctx context.Context, formID string, callerID uuid.UUID) error {
	form, err := s.getOwnedForm(ctx, formID, callerID, "delete")
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Response().DeleteByForm(ctx, form.ID); err != nil {
			return err
		}
		return txRepo.Form().Delete(ctx, form.ID)
	})
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrFormNotFound
		}
		return fmt.Errorf("failed to delete form: %w", err)
	}

	s.publishFormEvent(ctx, events.FormDeleted, form)
	s.logger.Info("form deleted", "form_id", form.ID, "admin_id", callerID)

	return nil
}

// List returns one page of the caller's forms, newest first.
func (s *formService) List(ctx context.Context, adminID uuid.UUID, params *ListFormsParams) (*FormListResult, error) {
	params.Normalize()

	filters := repositories.FormFilters{
		Search: strings.TrimSpace(params.Search),
		Limit:  params.Limit,
		Offset: (params.Page - 1) * params.Limit,
	}

	forms, total, err := s.repo.Form().ListByAdmin(ctx, adminID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	items := make([]FormListItem, len(forms))
	for i, form := range forms {
		items[i] = FormListItem{
			ID:            form.ID,
			Title:         form.Title,
			Description:   form.Description,
			QuestionCount: len(form.Questions),
			IsActive:      form.IsActive,
			ExpiresAt:     form.ExpiresAt,
			CreatedAt:     form.CreatedAt,
		}
	}

	return &FormListResult{
		Forms:      items,
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}, nil
}

// getOwnedForm fetches a form and enforces ownership.
func (s *formService) getOwnedForm(ctx context.Context, formID string, callerID uuid.UUID, action string) (*models.FeedbackForm, error) {
	id, err := parseFormID(formID)
	if err != nil {
		return nil, err
	}

	form, err := s.repo.Form().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if form.AdminID != callerID {
		return nil, NewPermissionError("form", action)
	}

	return form, nil
}

// publishFormEvent publishes without failing the request.
func (s *formService) publishFormEvent(ctx context.Context, eventType string, form *models.FeedbackForm) {
	event := events.NewEvent(eventType, events.FormEvent{
		FormID:   form.ID.String(),
		AdminID:  form.AdminID.String(),
		Title:    form.Title,
		IsActive: form.IsActive,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish form event", "error", err, "type", eventType, "form_id", form.ID)
	}
}

func formSummary(form *models.FeedbackForm) *FormSummary {
	return &FormSummary{
		ID:            form.ID,
		Title:         form.Title,
		Description:   form.Description,
		QuestionCount: len(form.Questions),
		IsActive:      form.IsActive,
		ExpiresAt:     form.ExpiresAt,
		CreatedAt:     form.CreatedAt,
	}
}

func parseFormID(formID string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(formID))
	if err != nil {
		return uuid.Nil, ErrInvalidFormID
	}
	return id, nil
}
