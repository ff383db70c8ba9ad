package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cafehub/internal/middleware"
	"cafehub/internal/models"
	"cafehub/internal/services"
	"cafehub/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, utils.ErrorResponse("Email already registered", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Registration failed", err.Error()))
		return
	}

	c.JSON(http.StatusCreated, utils.SuccessResponse("Account created", resp))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid email or password", ""))
		case errors.Is(err, services.ErrUserInactive):
			c.JSON(http.StatusForbidden, utils.ErrorResponse("Account deactivated", ""))
		default:
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Logged in", resp))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRefresh):
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid refresh token", ""))
		case errors.Is(err, services.ErrUserInactive):
			c.JSON(http.StatusForbidden, utils.ErrorResponse("Account deactivated", ""))
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid refresh token", ""))
		default:
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Token refresh failed", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Tokens refreshed", resp))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshRequest
	// Logout with no body still clears nothing server-side but succeeds.
	_ = c.ShouldBindJSON(&req)

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Logout failed", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Logged out", nil))
}

func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, utils.SuccessResponse("Profile retrieved", user))
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	updated, err := h.authService.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Profile update failed", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Profile updated", updated))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), user.ID, &req); err != nil {
		if errors.Is(err, services.ErrWrongPassword) {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Current password is incorrect", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Password change failed", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Password changed", nil))
}

func (h *AuthHandler) Deactivate(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.authService.Deactivate(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Deactivation failed", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Account deactivated", nil))
}
