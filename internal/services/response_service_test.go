package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pulseform/feedback-service/internal/events"
	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/validator"
)

func newTestResponseService(repo *MockRepository, publisher events.Publisher) ResponseService {
	return NewResponseService(repo, testLogger(), validator.New(), publisher)
}

func validSubmission(formID uuid.UUID) *SubmitResponseRequest {
	return &SubmitResponseRequest{
		FormID:      formID.String(),
		SubmittedBy: "Ada",
		Answers: []validator.AnswerRequest{
			{QuestionText: "Would you recommend this course?", Answer: "Yes"},
			{QuestionText: "How was the pacing?", Answer: "Just right"},
		},
	}
}

func TestResponseService_Submit_GateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("missing form wins over everything", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))

		req := validSubmission(uuid.New())
		req.Answers = nil // would be a shape error, but existence is checked first
		if _, err := svc.Submit(ctx, req); !errors.Is(err, ErrFormNotFound) {
			t.Errorf("expected ErrFormNotFound, got %v", err)
		}
	})

	t.Run("inactive wins over missing required answers", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))
		form := seedForm(t, repo, uuid.New(), func(f *models.FeedbackForm) { f.IsActive = false })

		req := validSubmission(form.ID)
		req.Answers = nil
		if _, err := svc.Submit(ctx, req); !errors.Is(err, ErrFormInactive) {
			t.Errorf("expected ErrFormInactive, got %v", err)
		}
	})

	t.Run("expired wins over duplicate", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))
		past := time.Now().Add(-time.Hour)
		form := seedForm(t, repo, uuid.New(), func(f *models.FeedbackForm) { f.ExpiresAt = &past })

		if err := repo.ResponseRepo.Create(ctx, &models.FeedbackResponse{FormID: form.ID, SubmittedBy: "Ada"}); err != nil {
			t.Fatalf("seed response: %v", err)
		}

		if _, err := svc.Submit(ctx, validSubmission(form.ID)); !errors.Is(err, ErrFormExpired) {
			t.Errorf("expected ErrFormExpired, got %v", err)
		}
	})

	t.Run("duplicate wins over shape errors", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))
		form := seedForm(t, repo, uuid.New(), nil)

		if err := repo.ResponseRepo.Create(ctx, &models.FeedbackResponse{FormID: form.ID, SubmittedBy: "Ada"}); err != nil {
			t.Fatalf("seed response: %v", err)
		}

		req := validSubmission(form.ID)
		req.Answers = nil
		if _, err := svc.Submit(ctx, req); !errors.Is(err, ErrDuplicateSubmission) {
			t.Errorf("expected ErrDuplicateSubmission, got %v", err)
		}
	})

	t.Run("empty answers rejected", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))
		form := seedForm(t, repo, uuid.New(), nil)

		req := validSubmission(form.ID)
		req.Answers = nil
		_, err := svc.Submit(ctx, req)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})

	t.Run("empty answer value rejected", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))
		form := seedForm(t, repo, uuid.New(), nil)

		req := validSubmission(form.ID)
		req.Answers = append(req.Answers, validator.AnswerRequest{QuestionText: "Any other comments?", Answer: ""})
		_, err := svc.Submit(ctx, req)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}

		stored, _ := repo.ResponseRepo.GetByForm(ctx, form.ID)
		if len(stored) != 0 {
			t.Errorf("rejected submission was persisted: %d responses", len(stored))
		}
	})

	t.Run("missing required answer rejected", func(t *testing.T) {
		repo := NewMockRepository()
		svc := newTestResponseService(repo, events.NewMockEventPublisher(nil))
		form := seedForm(t, repo, uuid.New(), nil)

		req := validSubmission(form.ID)
		req.Answers = []validator.AnswerRequest{{QuestionText: "How was the pacing?", Answer: "Just right"}}
		_, err := svc.Submit(ctx, req)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected validation errors, got %v", err)
		}
	})
}

func TestResponseService_Submit_Success(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(nil)
	svc := newTestResponseService(repo, publisher)
	form := seedForm(t, repo, uuid.New(), nil)

	result, err := svc.Submit(ctx, validSubmission(form.ID))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if result.ResponseID == uuid.Nil || result.FormID != form.ID {
		t.Errorf("unexpected result %+v", result)
	}

	stored, err := repo.ResponseRepo.GetByForm(ctx, form.ID)
	if err != nil || len(stored) != 1 {
		t.Fatalf("expected 1 stored response, got %d (%v)", len(stored), err)
	}
	if stored[0].SubmittedBy != "Ada" {
		t.Errorf("submitter = %q", stored[0].SubmittedBy)
	}
	if answer, ok := stored[0].AnswerFor("Would you recommend this course?"); !ok || answer != "Yes" {
		t.Errorf("answer stored incorrectly: %q (%v)", answer, ok)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.ResponseSubmitted {
		t.Errorf("expected one %s event, got %v", events.ResponseSubmitted, published)
	}

	t.Run("second submission by same name rejected", func(t *testing.T) {
		if _, err := svc.Submit(ctx, validSubmission(form.ID)); !errors.Is(err, ErrDuplicateSubmission) {
			t.Errorf("expected ErrDuplicateSubmission, got %v", err)
		}
	})

	t.Run("different name accepted", func(t *testing.T) {
		req := validSubmission(form.ID)
		req.SubmittedBy = "Grace"
		if _, err := svc.Submit(ctx, req); err != nil {
			t.Errorf("Submit: %v", err)
		}
	})
}
