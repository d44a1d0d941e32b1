package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseform/feedback-service/internal/services"
	"github.com/pulseform/feedback-service/internal/utils"
)

type ResponseHandler struct {
	BaseHandler
	responseService services.ResponseService
}

func NewResponseHandler(responseService services.ResponseService, logger utils.Logger) *ResponseHandler {
	return &ResponseHandler{
		BaseHandler:     NewBaseHandler(logger),
		responseService: responseService,
	}
}

// Submit records an anonymous response to an active form
// @Summary Submit feedback response
// @Description Accepts one response per respondent name for a form
// @Tags response
// @Accept json
// @Produce json
// @Param response body services.SubmitResponseRequest true "Response payload"
// @Success 201 {object} SuccessResponse{data=services.SubmissionResult}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /response/submit [post]
func (h *ResponseHandler) Submit(c *gin.Context) {
	var req services.SubmitResponseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.responseService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Response submitted", "form_id", result.FormID, "response_id", result.ResponseID)

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Response submitted successfully",
		Data:    result,
	})
}
