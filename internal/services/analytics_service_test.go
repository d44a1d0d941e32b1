package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pulseform/feedback-service/internal/cache"
	"github.com/pulseform/feedback-service/internal/models"
)

func analyticsForm(adminID uuid.UUID) *models.FeedbackForm {
	return &models.FeedbackForm{
		ID:      uuid.New(),
		AdminID: adminID,
		Title:   "Course Feedback",
		Questions: datatypes.NewJSONSlice([]models.Question{
			{QuestionText: "Would you recommend this course?", QuestionType: models.QuestionTypeYesNo},
			{QuestionText: "How was the pacing?", QuestionType: models.QuestionTypeMCQ, Options: []string{"A", "B"}},
			{QuestionText: "Comments?", QuestionType: models.QuestionTypeText},
		}),
		IsActive: true,
	}
}

func submission(formID uuid.UUID, name string, answers map[string]string) *models.FeedbackResponse {
	var list []models.Answer
	for q, a := range answers {
		list = append(list, models.Answer{QuestionText: q, Answer: a})
	}
	return &models.FeedbackResponse{
		ID:          uuid.New(),
		FormID:      formID,
		SubmittedBy: name,
		Answers:     datatypes.NewJSONSlice(list),
	}
}

func findQuestion(t *testing.T, analytics []QuestionAnalytics, text string) QuestionAnalytics {
	t.Helper()
	for _, qa := range analytics {
		if qa.QuestionText == text {
			return qa
		}
	}
	t.Fatalf("question %q missing from analytics", text)
	return QuestionAnalytics{}
}

func optionCount(t *testing.T, qa QuestionAnalytics, option string) OptionCount {
	t.Helper()
	for _, oc := range qa.Options {
		if oc.Option == option {
			return oc
		}
	}
	t.Fatalf("option %q missing from %q", option, qa.QuestionText)
	return OptionCount{}
}

func TestBuildFormAnalytics_YesNoPercentages(t *testing.T) {
	form := analyticsForm(uuid.New())

	// 3 yes (mixed case), 1 no.
	responses := []*models.FeedbackResponse{
		submission(form.ID, "a", map[string]string{"Would you recommend this course?": "Yes"}),
		submission(form.ID, "b", map[string]string{"Would you recommend this course?": "yes"}),
		submission(form.ID, "c", map[string]string{"Would you recommend this course?": "YES"}),
		submission(form.ID, "d", map[string]string{"Would you recommend this course?": "No"}),
	}

	analytics := BuildFormAnalytics(form, responses)

	qa := findQuestion(t, analytics.Analytics, "Would you recommend this course?")
	if got := optionCount(t, qa, "Yes"); got.Count != 3 || got.Percentage != 75 {
		t.Errorf("Yes = %+v, want count 3 percentage 75", got)
	}
	if got := optionCount(t, qa, "No"); got.Count != 1 || got.Percentage != 25 {
		t.Errorf("No = %+v, want count 1 percentage 25", got)
	}
	if qa.ResponseRate != 100 {
		t.Errorf("response rate = %d, want 100", qa.ResponseRate)
	}
}

func TestBuildFormAnalytics_MCQExactMatch(t *testing.T) {
	form := analyticsForm(uuid.New())

	responses := []*models.FeedbackResponse{
		submission(form.ID, "a", map[string]string{"How was the pacing?": "A"}),
		submission(form.ID, "b", map[string]string{"How was the pacing?": "A"}),
		submission(form.ID, "c", map[string]string{"How was the pacing?": "B"}),
		// Case mismatch must not count for mcq.
		submission(form.ID, "d", map[string]string{"How was the pacing?": "a"}),
	}

	analytics := BuildFormAnalytics(form, responses)

	qa := findQuestion(t, analytics.Analytics, "How was the pacing?")
	if got := optionCount(t, qa, "A"); got.Count != 2 || got.Percentage != 50 {
		t.Errorf("A = %+v, want count 2 percentage 50", got)
	}
	if got := optionCount(t, qa, "B"); got.Count != 1 || got.Percentage != 25 {
		t.Errorf("B = %+v, want count 1 percentage 25", got)
	}
	// All four answered something, even if it matched no option.
	if qa.TotalAnswers != 4 || qa.ResponseRate != 100 {
		t.Errorf("totalAnswers=%d responseRate=%d", qa.TotalAnswers, qa.ResponseRate)
	}
}

func TestBuildFormAnalytics_ZeroResponses(t *testing.T) {
	form := analyticsForm(uuid.New())

	analytics := BuildFormAnalytics(form, nil)

	if analytics.FormDetails.TotalResponses != 0 {
		t.Errorf("total = %d", analytics.FormDetails.TotalResponses)
	}
	for _, qa := range analytics.Analytics {
		for _, oc := range qa.Options {
			if oc.Percentage != 0 {
				t.Errorf("%s/%s percentage = %d, want 0", qa.QuestionText, oc.Option, oc.Percentage)
			}
		}
		if qa.ResponseRate != 0 {
			t.Errorf("%s response rate = %d, want 0", qa.QuestionText, qa.ResponseRate)
		}
	}
	if len(analytics.AllResponses) != 0 {
		t.Errorf("expected empty raw listing")
	}
}

func TestBuildFormAnalytics_TextQuestionsOnlyInRawListing(t *testing.T) {
	form := analyticsForm(uuid.New())
	responses := []*models.FeedbackResponse{
		submission(form.ID, "a", map[string]string{"Comments?": "Great course"}),
	}

	analytics := BuildFormAnalytics(form, responses)

	for _, qa := range analytics.Analytics {
		if qa.QuestionType == models.QuestionTypeText {
			t.Errorf("text question %q must not be aggregated", qa.QuestionText)
		}
	}
	if len(analytics.AllResponses) != 1 {
		t.Fatalf("raw listing missing")
	}
	view := analytics.AllResponses[0]
	if view.SubmittedBy != "a" || len(view.Answers) != 1 || view.Answers[0].Answer != "Great course" {
		t.Errorf("unexpected raw view %+v", view)
	}
}

func TestBuildFormAnalytics_ResponseRateWithPartialAnswers(t *testing.T) {
	form := analyticsForm(uuid.New())

	responses := []*models.FeedbackResponse{
		submission(form.ID, "a", map[string]string{"Would you recommend this course?": "Yes"}),
		submission(form.ID, "b", map[string]string{"Comments?": "n/a"}),
		submission(form.ID, "c", map[string]string{"Would you recommend this course?": "No"}),
		submission(form.ID, "d", map[string]string{"Comments?": "ok"}),
	}

	analytics := BuildFormAnalytics(form, responses)

	qa := findQuestion(t, analytics.Analytics, "Would you recommend this course?")
	if qa.TotalAnswers != 2 || qa.ResponseRate != 50 {
		t.Errorf("totalAnswers=%d responseRate=%d, want 2/50", qa.TotalAnswers, qa.ResponseRate)
	}
}

func TestAnalyticsService_OwnershipAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	svc := NewAnalyticsService(repo, testLogger(), cache.NewCacheManager(nil))
	owner := uuid.New()
	form := seedForm(t, repo, owner, nil)

	t.Run("non-owner is forbidden", func(t *testing.T) {
		if _, err := svc.GetFormAnalytics(ctx, form.ID.String(), uuid.New()); !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("owner gets aggregates", func(t *testing.T) {
		if err := repo.ResponseRepo.Create(ctx, submission(form.ID, "Ada", map[string]string{
			"Would you recommend this course?": "Yes",
		})); err != nil {
			t.Fatalf("seed response: %v", err)
		}

		analytics, err := svc.GetFormAnalytics(ctx, form.ID.String(), owner)
		if err != nil {
			t.Fatalf("GetFormAnalytics: %v", err)
		}
		if analytics.FormDetails.TotalResponses != 1 {
			t.Errorf("total = %d", analytics.FormDetails.TotalResponses)
		}
	})

	t.Run("unknown form", func(t *testing.T) {
		if _, err := svc.GetFormAnalytics(ctx, uuid.NewString(), owner); err != ErrFormNotFound {
			t.Errorf("expected ErrFormNotFound, got %v", err)
		}
	})
}
