package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Answer pairs a submitted value with the text of the question it
// answers. Matching against the form's questions is done by exact text.
type Answer struct {
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

// FeedbackResponse is one anonymous submission against a form. The
// composite unique index enforces at most one submission per respondent
// name per form at the storage level, so concurrent duplicates cannot
// slip past the service-level check.
type FeedbackResponse struct {
	ID          uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey"`
	FormID      uuid.UUID                   `json:"formId" gorm:"type:uuid;not null;uniqueIndex:idx_responses_form_submitter,priority:1"`
	SubmittedBy string                      `json:"submittedBy" gorm:"size:255;not null;uniqueIndex:idx_responses_form_submitter,priority:2"`
	Answers     datatypes.JSONSlice[Answer] `json:"answers" gorm:"type:jsonb"`

	SubmittedAt time.Time `json:"submittedAt" gorm:"autoCreateTime"`
}

func (r *FeedbackResponse) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (FeedbackResponse) TableName() string {
	return "feedback_responses"
}

// AnswerFor returns the submitted answer for the given question text.
func (r *FeedbackResponse) AnswerFor(questionText string) (string, bool) {
	for _, a := range r.Answers {
		if a.QuestionText == questionText {
			return a.Answer, true
		}
	}
	return "", false
}
