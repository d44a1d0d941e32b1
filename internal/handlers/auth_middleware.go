package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pulseform/feedback-service/internal/models"
	"github.com/pulseform/feedback-service/internal/services"
)

const sessionCookieName = "token"

// AuthMiddleware resolves the session cookie into an authenticated admin.
// Downstream handlers read the identity via AdminFromContext.
type AuthMiddleware struct {
	authService services.AuthService
}

func NewAuthMiddleware(authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			return
		}

		admin, err := m.authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrAdminNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{
					Message: "Admin account no longer exists",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired session",
			})
			return
		}

		c.Set("admin_id", admin.ID)
		c.Set("admin", admin)
		c.Next()
	}
}

// AdminFromContext returns the authenticated admin set by RequireAdmin.
func AdminFromContext(c *gin.Context) (*models.Admin, bool) {
	v, exists := c.Get("admin")
	if !exists {
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	return admin, ok
}

// adminIDFromContext returns the caller's ID, answering the 401 itself
// when the middleware did not run.
func adminIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("admin_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Admin not authenticated",
		})
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Admin not authenticated",
		})
		return uuid.Nil, false
	}
	return id, true
}
