package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseform/feedback-service/internal/services"
	"github.com/pulseform/feedback-service/internal/utils"
)

type FormHandler struct {
	BaseHandler
	formService      services.FormService
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewFormHandler(
	formService services.FormService,
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *FormHandler {
	return &FormHandler{
		BaseHandler:      NewBaseHandler(logger),
		formService:      formService,
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// StatusUpdateRequest toggles whether a form accepts responses.
type StatusUpdateRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// CreateForm creates a new feedback form
// @Summary Create feedback form
// @Description Creates a feedback form with up to ten questions
// @Tags feedback
// @Accept json
// @Produce json
// @Param form body services.FormCreateRequest true "Form definition"
// @Success 201 {object} SuccessResponse{data=services.FormSummary}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /feedback/create-form [post]
func (h *FormHandler) CreateForm(c *gin.Context) {
	var req services.FormCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	form, err := h.formService.Create(c.Request.Context(), adminID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Form created", "form_id", form.ID, "admin_id", adminID)

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Form created successfully",
		Data:    form,
	})
}

// UpdateStatus activates or deactivates a form
// @Summary Toggle form status
// @Tags feedback
// @Accept json
// @Produce json
// @Param formId path string true "Form ID"
// @Param status body StatusUpdateRequest true "New status"
// @Success 200 {object} SuccessResponse{data=services.FormSummary}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feedback/update-status/{formId} [patch]
func (h *FormHandler) UpdateStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	form, err := h.formService.ToggleStatus(c.Request.Context(), c.Param("formId"), *req.IsActive, adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Form status updated",
		Data:    form,
	})
}

// GetForm returns a form definition for respondents. Public: no auth and
// no owner data beyond what the form itself shows.
// @Summary Get feedback form
// @Tags feedback
// @Produce json
// @Param formId path string true "Form ID"
// @Success 200 {object} SuccessResponse{data=models.FeedbackForm}
// @Failure 404 {object} ErrorResponse
// @Router /feedback/get-form/{formId} [get]
func (h *FormHandler) GetForm(c *gin.Context) {
	form, err := h.formService.GetByID(c.Request.Context(), c.Param("formId"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data: gin.H{
			"id":          form.ID,
			"title":       form.Title,
			"description": form.Description,
			"questions":   form.Questions,
			"isActive":    form.IsActive,
			"expiresAt":   form.ExpiresAt,
		},
	})
}

// GetAllForms lists the caller's forms, newest first
// @Summary List feedback forms
// @Tags feedback
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Title/description search"
// @Success 200 {object} SuccessResponse{data=services.FormListResult}
// @Failure 401 {object} ErrorResponse
// @Router /feedback/get-all-forms [get]
func (h *FormHandler) GetAllForms(c *gin.Context) {
	var params services.ListFormsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid query parameters",
			Details: err.Error(),
		})
		return
	}

	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.formService.List(c.Request.Context(), adminID, &params)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    result,
	})
}

// GetAnalytics returns aggregated results for an owned form
// @Summary Form analytics
// @Tags feedback
// @Produce json
// @Param formId path string true "Form ID"
// @Success 200 {object} SuccessResponse{data=services.FormAnalytics}
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feedback/{formId}/analytics [get]
func (h *FormHandler) GetAnalytics(c *gin.Context) {
	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	analytics, err := h.analyticsService.GetFormAnalytics(c.Request.Context(), c.Param("formId"), adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    analytics,
	})
}

// ExportForm streams the form's results as an XLSX attachment
// @Summary Export form results
// @Tags feedback
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param formId path string true "Form ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feedback/{formId}/export [get]
func (h *FormHandler) ExportForm(c *gin.Context) {
	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	result, err := h.exportService.ExportForm(c.Request.Context(), c.Param("formId"), adminID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Form exported", "form_id", c.Param("formId"), "bytes", len(result.Data))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// DeleteForm removes a form and all of its responses
// @Summary Delete feedback form
// @Tags feedback
// @Produce json
// @Param formId path string true "Form ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feedback/delete-feedback/{formId} [delete]
func (h *FormHandler) DeleteForm(c *gin.Context) {
	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), c.Param("formId"), adminID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Form deleted", "form_id", c.Param("formId"), "admin_id", adminID)

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Form deleted successfully",
	})
}
