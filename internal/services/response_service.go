package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/pulseform/feedback-service/internal/events"
	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
	"github.com/pulseform/feedback-service/internal/validator"
)

type responseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.Publisher
}

func NewResponseService(repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.Publisher) ResponseService {
	return &responseService{
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Submit runs the admission gates in a fixed order: form existence,
// active flag, expiry, duplicate submitter, payload shape, required
// coverage. Answers that pass are stored verbatim.
func (s *responseService) Submit(ctx context.Context, req *SubmitResponseRequest) (*SubmissionResult, error) {
	if strings.TrimSpace(req.FormID) == "" {
		return nil, s.validator.Business().ValidateSubmissionShape(req)
	}

	formID, err := parseFormID(req.FormID)
	if err != nil {
		return nil, err
	}

	form, err := s.repo.Form().GetByID(ctx, formID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if !form.IsActive {
		return nil, ErrFormInactive
	}
	if form.IsExpired(time.Now()) {
		return nil, ErrFormExpired
	}

	submittedBy := strings.TrimSpace(req.SubmittedBy)
	if submittedBy != "" {
		exists, err := s.repo.Response().ExistsByFormAndSubmitter(ctx, formID, submittedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing submission: %w", err)
		}
		if exists {
			return nil, ErrDuplicateSubmission
		}
	}

	if errs := s.validator.Business().ValidateSubmissionShape(req); errs.HasErrors() {
		return nil, errs
	}

	if errs := s.validateRequiredCoverage(form, req); errs.HasErrors() {
		return nil, errs
	}

	answers := make([]models.Answer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = models.Answer{
			QuestionText: strings.TrimSpace(a.QuestionText),
			Answer:       a.Answer,
		}
	}

	response := &models.FeedbackResponse{
		FormID:      formID,
		SubmittedBy: submittedBy,
		Answers:     datatypes.NewJSONSlice(answers),
	}
	if err := s.repo.Response().Create(ctx, response); err != nil {
		// A concurrent submission with the same name hits the unique
		// index instead of the existence check above.
		if repositories.IsDuplicateKey(err) {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	s.publishResponseEvent(ctx, response)
	s.logger.Info("response submitted", "form_id", formID, "response_id", response.ID)

	return &SubmissionResult{
		ResponseID:  response.ID,
		FormID:      formID,
		SubmittedAt: response.SubmittedAt,
	}, nil
}

// validateRequiredCoverage checks that every required question has a
// non-empty answer, matched by exact question text.
func (s *responseService) validateRequiredCoverage(form *models.FeedbackForm, req *SubmitResponseRequest) ValidationErrors {
	answered := make(map[string]string, len(req.Answers))
	for _, a := range req.Answers {
		answered[strings.TrimSpace(a.QuestionText)] = strings.TrimSpace(a.Answer)
	}

	var errs ValidationErrors
	for _, q := range form.Questions {
		if !q.IsRequired {
			continue
		}
		if value, ok := answered[q.QuestionText]; !ok || value == "" {
			errs = append(errs, ValidationError{
				Field:   "answers",
				Message: fmt.Sprintf("Question %q requires an answer", q.QuestionText),
				Rule:    "required",
			})
		}
	}

	return errs
}

func (s *responseService) publishResponseEvent(ctx context.Context, response *models.FeedbackResponse) {
	event := events.NewEvent(events.ResponseSubmitted, events.ResponseEvent{
		FormID:      response.FormID.String(),
		ResponseID:  response.ID.String(),
		AnswerCount: len(response.Answers),
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish response event", "error", err, "form_id", response.FormID)
	}
}
