package validator

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/pulseform/feedback-service/internal/models"
)

const (
	maxTitleLength        = 50
	maxDescriptionLength  = 200
	maxQuestionTextLength = 100
	maxQuestionsPerForm   = 10
	minMCQOptions         = 2
	maxMCQOptions         = 10
	minPasswordLength     = 8
)

// BusinessValidator handles the domain rules that struct tags cannot
// express: per-question limits with index-named messages, option
// uniqueness, expiry checks, password strength.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: validator.New()}
}

// Validate validates struct tags on any request type.
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateFormCreate checks the whole creation payload and accumulates
// every violation. Messages name the offending question and option by
// 1-based index so the client can point at the exact field.
func (bv *BusinessValidator) ValidateFormCreate(req *FormCreateRequest) ValidationErrors {
	var errors ValidationErrors

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: "Title is required",
			Rule:    "required",
		})
	} else if len(title) > maxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Title must be %d characters or less", maxTitleLength),
			Value:   len(title),
			Rule:    "max",
		})
	}

	if len(strings.TrimSpace(req.Description)) > maxDescriptionLength {
		errors = append(errors, ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("Description must be %d characters or less", maxDescriptionLength),
			Value:   len(req.Description),
			Rule:    "max",
		})
	}

	if len(req.Questions) == 0 {
		errors = append(errors, ValidationError{
			Field:   "questions",
			Message: "At least one question is required",
			Rule:    "required",
		})
	} else if len(req.Questions) > maxQuestionsPerForm {
		errors = append(errors, ValidationError{
			Field:   "questions",
			Message: fmt.Sprintf("A form can have at most %d questions", maxQuestionsPerForm),
			Value:   len(req.Questions),
			Rule:    "max",
		})
	}

	for i, q := range req.Questions {
		errors = append(errors, bv.validateQuestion(i, &q)...)
	}

	if req.ExpiresAt != nil && !req.ExpiresAt.After(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "expiresAt",
			Message: "Expiry date must be in the future",
			Value:   req.ExpiresAt,
			Rule:    "future_date",
		})
	}

	return errors
}

// validateQuestion checks one question; idx is zero-based, messages are
// one-based.
func (bv *BusinessValidator) validateQuestion(idx int, q *QuestionRequest) ValidationErrors {
	var errors ValidationErrors
	n := idx + 1

	text := strings.TrimSpace(q.QuestionText)
	if text == "" {
		errors = append(errors, ValidationError{
			Field:   fmt.Sprintf("questions[%d].questionText", idx),
			Message: fmt.Sprintf("Question %d: Question text is required", n),
			Rule:    "required",
		})
	} else if len(text) > maxQuestionTextLength {
		errors = append(errors, ValidationError{
			Field:   fmt.Sprintf("questions[%d].questionText", idx),
			Message: fmt.Sprintf("Question %d: Question text must be %d characters or less", n, maxQuestionTextLength),
			Value:   len(text),
			Rule:    "max",
		})
	}

	if !q.QuestionType.Valid() {
		errors = append(errors, ValidationError{
			Field:   fmt.Sprintf("questions[%d].questionType", idx),
			Message: fmt.Sprintf("Question %d: Question type must be text, mcq or yesno", n),
			Value:   q.QuestionType,
			Rule:    "question_type",
		})
		return errors
	}

	if q.QuestionType == models.QuestionTypeMCQ {
		if len(q.Options) < minMCQOptions || len(q.Options) > maxMCQOptions {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", idx),
				Message: fmt.Sprintf("Question %d: MCQ questions must have %d-%d options", n, minMCQOptions, maxMCQOptions),
				Value:   len(q.Options),
				Rule:    "mcq_options",
			})
		}

		seen := make(map[string]bool, len(q.Options))
		duplicate := false
		for j, opt := range q.Options {
			trimmed := strings.TrimSpace(opt)
			if trimmed == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("questions[%d].options[%d]", idx, j),
					Message: fmt.Sprintf("Question %d, Option %d: Option cannot be empty", n, j+1),
					Rule:    "required",
				})
				continue
			}
			if len(trimmed) > maxQuestionTextLength {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("questions[%d].options[%d]", idx, j),
					Message: fmt.Sprintf("Question %d, Option %d: Option must be %d characters or less", n, j+1, maxQuestionTextLength),
					Value:   len(trimmed),
					Rule:    "max",
				})
			}
			key := strings.ToLower(trimmed)
			if seen[key] {
				duplicate = true
			}
			seen[key] = true
		}
		if duplicate {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("questions[%d].options", idx),
				Message: fmt.Sprintf("Question %d: Duplicate options are not allowed", n),
				Rule:    "unique_options",
			})
		}
	} else if len(q.Options) > 0 {
		errors = append(errors, ValidationError{
			Field:   fmt.Sprintf("questions[%d].options", idx),
			Message: fmt.Sprintf("Question %d: Only MCQ questions can have options", n),
			Value:   len(q.Options),
			Rule:    "mcq_only",
		})
	}

	return errors
}

// ValidateSubmissionShape checks a submission payload before any form
// lookup: ids and names present, at least one answer, every answer
// carrying a question reference and a non-empty value.
func (bv *BusinessValidator) ValidateSubmissionShape(req *SubmitResponseRequest) ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(req.FormID) == "" {
		errors = append(errors, ValidationError{
			Field:   "formId",
			Message: "Form ID is required",
			Rule:    "required",
		})
	}

	if strings.TrimSpace(req.SubmittedBy) == "" {
		errors = append(errors, ValidationError{
			Field:   "submittedBy",
			Message: "Name is required",
			Rule:    "required",
		})
	}

	if len(req.Answers) == 0 {
		errors = append(errors, ValidationError{
			Field:   "answers",
			Message: "At least one answer is required",
			Rule:    "required",
		})
	}

	for i, a := range req.Answers {
		if strings.TrimSpace(a.QuestionText) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("answers[%d].questionText", i),
				Message: fmt.Sprintf("Answer %d: Question text is required", i+1),
				Rule:    "required",
			})
		}
		if strings.TrimSpace(a.Answer) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("answers[%d].answer", i),
				Message: fmt.Sprintf("Answer %d: Answer cannot be empty", i+1),
				Rule:    "required",
			})
		}
	}

	return errors
}

// ValidatePassword enforces the sign-up password policy: at least 8
// characters containing a lowercase letter, an uppercase letter, a
// digit and a symbol.
func (bv *BusinessValidator) ValidatePassword(password string) ValidationErrors {
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if len(password) < minPasswordLength || !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return ValidationErrors{{
			Field:   "password",
			Message: "Password must be at least 8 characters and include uppercase, lowercase, number and symbol",
			Rule:    "password_strength",
		}}
	}
	return nil
}
