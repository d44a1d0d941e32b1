package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type FormCreateRequest = validator.FormCreateRequest
type QuestionRequest = validator.QuestionRequest
type SubmitResponseRequest = validator.SubmitResponseRequest
type ListFormsParams = validator.ListFormsParams

// AdminProfile is the public identity of an admin; the password hash
// never leaves the service layer.
type AdminProfile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoginResult carries the signed token alongside the identity so the
// handler can set the cookie.
type LoginResult struct {
	Admin AdminProfile `json:"user"`
	Token string       `json:"-"`
}

// FormSummary is the creation/toggle result view of a form.
type FormSummary struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	QuestionCount int        `json:"questionCount"`
	IsActive      bool       `json:"isActive"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// FormListItem is one row of the admin listing.
type FormListItem struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	QuestionCount int        `json:"questionCount"`
	IsActive      bool       `json:"isActive"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// FormListResult is one page of the admin listing.
type FormListResult struct {
	Forms      []FormListItem    `json:"forms"`
	Pagination models.Pagination `json:"pagination"`
}

// OptionCount is the per-option tally of a choice question.
type OptionCount struct {
	Option     string `json:"option"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// QuestionAnalytics aggregates one mcq/yesno question.
type QuestionAnalytics struct {
	QuestionText string              `json:"questionText"`
	QuestionType models.QuestionType `json:"questionType"`
	Options      []OptionCount       `json:"options"`
	TotalAnswers int                 `json:"totalAnswers"`
	ResponseRate int                 `json:"responseRate"`
}

// ResponseView reshapes a stored response for the admin listing.
type ResponseView struct {
	SubmittedBy string          `json:"submittedBy"`
	SubmittedAt time.Time       `json:"submittedAt"`
	Answers     []models.Answer `json:"answers"`
}

// FormDetails heads the analytics payload.
type FormDetails struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	IsActive       bool       `json:"isActive"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	TotalResponses int        `json:"totalResponses"`
}

// FormAnalytics is the full analytics payload for one form.
type FormAnalytics struct {
	FormDetails  FormDetails         `json:"formDetails"`
	Analytics    []QuestionAnalytics `json:"analytics"`
	AllResponses []ResponseView      `json:"allResponses"`
}

// SubmissionResult confirms an accepted submission.
type SubmissionResult struct {
	ResponseID  uuid.UUID `json:"responseId"`
	FormID      uuid.UUID `json:"formId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ExportResult is a rendered spreadsheet ready for download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AdminProfile, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResult, error)

	// VerifyToken parses a signed token and resolves the admin it names.
	VerifyToken(ctx context.Context, token string) (*models.Admin, error)

	// TokenTTL is how long issued tokens (and their cookies) live.
	TokenTTL() time.Duration
}

type FormService interface {
	Create(ctx context.Context, adminID uuid.UUID, req *FormCreateRequest) (*FormSummary, error)
	GetByID(ctx context.Context, formID string) (*models.FeedbackForm, error)
	ToggleStatus(ctx context.Context, formID string, isActive bool, callerID uuid.UUID) (*FormSummary, error)
	Delete(ctx context.Context, formID string, callerID uuid.UUID) error
	List(ctx context.Context, adminID uuid.UUID, params *ListFormsParams) (*FormListResult, error)
}

type ResponseService interface {
	Submit(ctx context.Context, req *SubmitResponseRequest) (*SubmissionResult, error)
}

type AnalyticsService interface {
	GetFormAnalytics(ctx context.Context, formID string, callerID uuid.UUID) (*FormAnalytics, error)
}

type ExportService interface {
	ExportForm(ctx context.Context, formID string, callerID uuid.UUID) (*ExportResult, error)
}

// ===== SERVICE MANAGER =====

// ServiceManager provides access to all services
type ServiceManager interface {
	Auth() AuthService
	Form() FormService
	Response() ResponseService
	Analytics() AnalyticsService
	Export() ExportService

	// Lifecycle management
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
