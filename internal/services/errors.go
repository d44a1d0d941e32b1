package services

import (
	"errors"
	"fmt"

	"github.com/pulseform/feedback-service/internal/validator"
)

// Sentinel errors translated to HTTP statuses by the handlers.
var (
	ErrFormNotFound  = errors.New("form not found")
	ErrInvalidFormID = errors.New("invalid form id")
	ErrAdminNotFound = errors.New("admin not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrFormInactive        = errors.New("form is not accepting responses")
	ErrFormExpired         = errors.New("form has expired")
	ErrDuplicateSubmission = errors.New("response already submitted for this form")
)

// ValidationErrors is re-exported so callers only import services.
type ValidationErrors = validator.ValidationErrors

// ValidationError is re-exported alongside ValidationErrors.
type ValidationError = validator.ValidationError

// PermissionError marks an operation attempted on a resource the caller
// does not own.
type PermissionError struct {
	Resource string
	Action   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("not allowed to %s this %s", e.Action, e.Resource)
}

func NewPermissionError(resource, action string) *PermissionError {
	return &PermissionError{Resource: resource, Action: action}
}

// IsNotFoundError reports whether err maps to a 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrInvalidFormID) ||
		errors.Is(err, ErrAdminNotFound)
}

// IsPermissionError reports whether err maps to a 403.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidationError reports whether err carries accumulated validation
// failures.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsSubmissionRejected reports whether err is one of the submission
// gates that map to a 400.
func IsSubmissionRejected(err error) bool {
	return errors.Is(err, ErrFormInactive) ||
		errors.Is(err, ErrFormExpired) ||
		errors.Is(err, ErrDuplicateSubmission)
}
