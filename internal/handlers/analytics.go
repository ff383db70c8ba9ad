package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cafehub/internal/middleware"
	"cafehub/internal/services"
	"cafehub/internal/utils"
)

type AnalyticsHandler struct {
	dashboardService *services.DashboardService
}

func NewAnalyticsHandler(dashboardService *services.DashboardService) *AnalyticsHandler {
	return &AnalyticsHandler{dashboardService: dashboardService}
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), cafeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to build summary", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Summary retrieved", summary))
}

func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 90 {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid days parameter", "must be 1-90"))
			return
		}
		days = n
	}

	series, err := h.dashboardService.RevenueSeries(c.Request.Context(), cafeID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to build revenue series", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Revenue retrieved", series))
}

func (h *AnalyticsHandler) PopularItems(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid limit", ""))
			return
		}
		limit = n
	}

	items, err := h.dashboardService.PopularItems(c.Request.Context(), cafeID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to rank items", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Popular items retrieved", items))
}

func (h *AnalyticsHandler) OrderStatus(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	breakdown, err := h.dashboardService.StatusBreakdown(c.Request.Context(), cafeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to build breakdown", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order status breakdown retrieved", breakdown))
}

func (h *AnalyticsHandler) requireCafeAccess(c *gin.Context, cafeID string) bool {
	if err := services.RequireCafeAccess(middleware.CurrentUser(c), cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return false
	}
	return true
}
