package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseform/feedback-service/internal/services"
	"github.com/pulseform/feedback-service/internal/utils"
)

type AdminHandler struct {
	BaseHandler
	authService   services.AuthService
	cookieDomain  string
	secureCookies bool
}

func NewAdminHandler(
	authService services.AuthService,
	logger utils.Logger,
	cookieDomain string,
	secureCookies bool,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		authService:   authService,
		cookieDomain:  cookieDomain,
		secureCookies: secureCookies,
	}
}

// SignUp registers a new admin account
// @Summary Register admin
// @Description Creates a new admin account with name, email and password
// @Tags admin
// @Accept json
// @Produce json
// @Param admin body services.RegisterRequest true "Registration data"
// @Success 201 {object} SuccessResponse{data=services.AdminProfile}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/sign-up [post]
func (h *AdminHandler) SignUp(c *gin.Context) {
	var req services.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	profile, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Admin registered", "admin_id", profile.ID)

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "Account created successfully",
		Data:    profile,
	})
}

// Login authenticates an admin and sets the session cookie
// @Summary Admin login
// @Description Verifies credentials and issues a session cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param credentials body services.LoginRequest true "Login credentials"
// @Success 200 {object} SuccessResponse{data=services.AdminProfile}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, int(h.authService.TokenTTL().Seconds()))

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Logged in successfully",
		Data:    result.Admin,
	})
}

// Logout clears the session cookie. Safe to call without a session.
// @Summary Admin logout
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /admin/logout [get]
func (h *AdminHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// Profile returns the authenticated admin's identity
// @Summary Admin profile
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.AdminProfile}
// @Failure 401 {object} ErrorResponse
// @Router /admin/profile [get]
func (h *AdminHandler) Profile(c *gin.Context) {
	admin, ok := AdminFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Admin not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data: services.AdminProfile{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
		},
	})
}

// Cross-site frontends need SameSite=None, which browsers only accept on
// secure cookies; local development falls back to Lax over plain HTTP.
func (h *AdminHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	if h.secureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(sessionCookieName, token, maxAge, "/", h.cookieDomain, h.secureCookies, true)
}
