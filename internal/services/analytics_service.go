package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/pulseform/feedback-service/internal/cache"
	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/repositories"
)

var yesNoOptions = []string{"Yes", "No"}

type analyticsService struct {
	repo         repositories.Repository
	logger       *slog.Logger
	cacheManager *cache.CacheManager
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger, cacheManager *cache.CacheManager) AnalyticsService {
	return &analyticsService{
		repo:         repo,
		logger:       logger,
		cacheManager: cacheManager,
	}
}

// GetFormAnalytics aggregates the form's responses for its owner. The
// result is cached briefly; submissions invalidate it.
func (s *analyticsService) GetFormAnalytics(ctx context.Context, formID string, callerID uuid.UUID) (*FormAnalytics, error) {
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
		return nil, NewPermissionError("form", "view analytics for")
	}

	cacheKey := fmt.Sprintf("form:%s", id)
	var analytics FormAnalytics

	err = s.cacheManager.Analytics.CacheOrExecute(ctx, cacheKey, &analytics, cache.AnalyticsCacheConfig.TTL, func() (interface{}, error) {
		responses, err := s.repo.Response().GetByForm(ctx, id)
		if err != nil {
			return nil, err
		}
		return BuildFormAnalytics(form, responses), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics: %w", err)
	}

	return &analytics, nil
}

// BuildFormAnalytics aggregates responses in a single pass per question.
// MCQ answers match options exactly; yes/no answers match
// case-insensitively. Text questions appear only in the raw listing.
func BuildFormAnalytics(form *models.FeedbackForm, responses []*models.FeedbackResponse) *FormAnalytics {
	total := len(responses)

	var questionAnalytics []QuestionAnalytics
	for _, q := range form.Questions {
		switch q.QuestionType {
		case models.QuestionTypeMCQ:
			questionAnalytics = append(questionAnalytics, aggregateChoices(q, responses, q.Options, false))
		case models.QuestionTypeYesNo:
			questionAnalytics = append(questionAnalytics, aggregateChoices(q, responses, yesNoOptions, true))
		}
	}
	if questionAnalytics == nil {
		questionAnalytics = []QuestionAnalytics{}
	}

	views := make([]ResponseView, total)
	for i, r := range responses {
		views[i] = ResponseView{
			SubmittedBy: r.SubmittedBy,
			SubmittedAt: r.SubmittedAt,
			Answers:     r.Answers,
		}
	}

	return &FormAnalytics{
		FormDetails: FormDetails{
			Title:          form.Title,
			Description:    form.Description,
			IsActive:       form.IsActive,
			ExpiresAt:      form.ExpiresAt,
			CreatedAt:      form.CreatedAt,
			TotalResponses: total,
		},
		Analytics:    questionAnalytics,
		AllResponses: views,
	}
}

func aggregateChoices(q models.Question, responses []*models.FeedbackResponse, options []string, caseInsensitive bool) QuestionAnalytics {
	counts := make(map[string]int, len(options))
	answered := 0

	for _, r := range responses {
		answer, ok := r.AnswerFor(q.QuestionText)
		if !ok || strings.TrimSpace(answer) == "" {
			continue
		}
		answered++
		for _, opt := range options {
			if matchesOption(answer, opt, caseInsensitive) {
				counts[opt]++
				break
			}
		}
	}

	total := len(responses)
	optionCounts := make([]OptionCount, len(options))
	for i, opt := range options {
		optionCounts[i] = OptionCount{
			Option:     opt,
			Count:      counts[opt],
			Percentage: percentage(counts[opt], total),
		}
	}

	return QuestionAnalytics{
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Options:      optionCounts,
		TotalAnswers: answered,
		ResponseRate: percentage(answered, total),
	}
}

func matchesOption(answer, option string, caseInsensitive bool) bool {
	if caseInsensitive {
		return strings.EqualFold(strings.TrimSpace(answer), option)
	}
	return answer == option
}

// percentage rounds half away from zero; zero totals yield zero.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
