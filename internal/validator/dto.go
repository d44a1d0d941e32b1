package validator

import (
	"time"

	"github.com/pulseform/feedback-service/internal/models"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// QuestionRequest is one question inside a form creation payload.
// Limits are enforced by the business validator so every problem is
// reported with its question index.
type QuestionRequest struct {
	QuestionText string              `json:"questionText"`
	QuestionType models.QuestionType `json:"questionType"`
	Options      []string            `json:"options"`
	IsRequired   *bool               `json:"isRequired"`
}

// FormCreateRequest is the form creation payload.
type FormCreateRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionRequest `json:"questions"`
	ExpiresAt   *time.Time        `json:"expiresAt"`
}

// AnswerRequest is one answer inside a submission payload.
type AnswerRequest struct {
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

// SubmitResponseRequest is the anonymous submission payload.
type SubmitResponseRequest struct {
	FormID      string          `json:"formId"`
	SubmittedBy string          `json:"submittedBy"`
	Answers     []AnswerRequest `json:"answers"`
}

// ListFormsParams carries the paging and search query of a listing.
type ListFormsParams struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// Normalize clamps paging values to sane defaults.
func (p *ListFormsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}
