package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseform/feedback-service/internal/services"
	"github.com/pulseform/feedback-service/internal/utils"
)

// ErrorResponse is the envelope for every non-2xx payload.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
	Details string   `json:"details,omitempty"`
}

// SuccessResponse wraps 2xx payloads.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs handler-level activity with the request-scoped logger
// so the request_id is carried along.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c.Request.Context(), h.logger).Info(msg, args...)
}

// handleServiceError translates service-layer errors into HTTP statuses.
// Validation failures carry all accumulated messages; everything
// unrecognized becomes a 500 without leaking internals.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Errors:  verrs.Messages(),
		})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsPermissionError(err):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
		})
	// Bad credentials and duplicate registrations are request errors,
	// not auth-state errors: both answer 400.
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	case services.IsSubmissionRejected(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
		})
	default:
		utils.LoggerFromContext(c.Request.Context(), h.logger).Error("unhandled service error",
			"error", err,
			"path", c.FullPath(),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}

// bindJSON decodes the body and writes the 400 itself on failure.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}
