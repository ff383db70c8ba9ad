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

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notificationService.List(c.Request.Context(), user.ID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list notifications", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Notifications retrieved", notifications))
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req models.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create notification", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Notification created", n))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	n, err := h.notificationService.MarkRead(c.Request.Context(), c.Param("id"), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Notification not found", ""))
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		default:
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to mark notification read", err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Notification marked read", n))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.notificationService.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to mark notifications read", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("All notifications marked read", nil))
}
