package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseform/feedback-service/internal/services"
	"github.com/pulseform/feedback-service/internal/utils"
)

type HandlerManager struct {
	adminHandler    *AdminHandler
	formHandler     *FormHandler
	responseHandler *ResponseHandler
	authMiddleware  *AuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	cookieDomain string,
	secureCookies bool,
) *HandlerManager {
	return &HandlerManager{
		adminHandler:    NewAdminHandler(serviceManager.Auth(), logger, cookieDomain, secureCookies),
		formHandler:     NewFormHandler(serviceManager.Form(), serviceManager.Analytics(), serviceManager.Export(), logger),
		responseHandler: NewResponseHandler(serviceManager.Response(), logger),
		authMiddleware:  NewAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	requireAdmin := hm.authMiddleware.RequireAdmin()

	v1 := router.Group("/api/v1")
	{
		// Admin account routes
		admin := v1.Group("/admin")
		{
			admin.POST("/sign-up", hm.adminHandler.SignUp)
			admin.POST("/login", hm.adminHandler.Login)
			admin.GET("/logout", hm.adminHandler.Logout)
			admin.GET("/profile", requireAdmin, hm.adminHandler.Profile)
		}

		// Form management routes. Fetching a single form is public so
		// respondents can load it without an account.
		feedback := v1.Group("/feedback")
		{
			feedback.POST("/create-form", requireAdmin, hm.formHandler.CreateForm)
			feedback.PATCH("/update-status/:formId", requireAdmin, hm.formHandler.UpdateStatus)
			feedback.GET("/get-form/:formId", hm.formHandler.GetForm)
			feedback.GET("/get-all-forms", requireAdmin, hm.formHandler.GetAllForms)
			feedback.GET("/:formId/analytics", requireAdmin, hm.formHandler.GetAnalytics)
			feedback.GET("/:formId/export", requireAdmin, hm.formHandler.ExportForm)
			feedback.DELETE("/delete-feedback/:formId", requireAdmin, hm.formHandler.DeleteForm)
		}

		// Public response submission
		response := v1.Group("/response")
		{
			response.POST("/submit", hm.responseHandler.Submit)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "feedback-service",
		})
	})
}
