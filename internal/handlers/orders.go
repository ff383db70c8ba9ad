package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cafehub/internal/middleware"
	"cafehub/internal/models"
	"cafehub/internal/services"
	"cafehub/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create is public: customers order straight from the QR menu without an
// account.
func (h *OrderHandler) Create(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.writeOrderError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Order placed", order))
}

func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeOrderError(c, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order retrieved", order))
}

// GetByNumber lets customers track an order with just the printed number.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetOrderByNumber(c.Request.Context(), c.Param("order_number"))
	if err != nil {
		h.writeOrderError(c, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order retrieved", order))
}

func (h *OrderHandler) ListByCafe(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	filter := models.OrderListFilter{
		Status:    models.OrderStatus(c.Query("status")),
		OrderType: models.OrderType(c.Query("order_type")),
	}
	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid limit", ""))
			return
		}
		filter.Limit = n
	}

	orders, err := h.orderService.ListByCafe(c.Request.Context(), cafeID, filter)
	if err != nil {
		h.writeOrderError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Orders retrieved", orders))
}

// ListActive feeds the kitchen display: non-terminal orders only.
func (h *OrderHandler) ListActive(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	orders, err := h.orderService.ListActive(c.Request.Context(), cafeID)
	if err != nil {
		h.writeOrderError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Active orders retrieved", orders))
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeOrderError(c, err, "Failed to update order")
		return
	}
	if !h.requireCafeAccess(c, order.CafeID) {
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	updated, err := h.orderService.UpdateStatus(c.Request.Context(), order.ID, &req)
	if err != nil {
		h.writeOrderError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Order status updated", updated))
}

func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeOrderError(c, err, "Failed to process payment")
		return
	}
	if !h.requireCafeAccess(c, order.CafeID) {
		return
	}

	var req models.OrderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	updated, err := h.orderService.ProcessPayment(c.Request.Context(), order.ID, &req)
	if err != nil {
		h.writeOrderError(c, err, "Payment processing failed")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Payment processed", updated))
}

func (h *OrderHandler) requireCafeAccess(c *gin.Context, cafeID string) bool {
	if err := services.RequireCafeAccess(middleware.CurrentUser(c), cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return false
	}
	return true
}

func (h *OrderHandler) writeOrderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Order not found", ""))
	case errors.Is(err, services.ErrCafeNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
	case errors.Is(err, services.ErrTableNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Table not found", ""))
	case errors.Is(err, services.ErrCafeInactive),
		errors.Is(err, services.ErrTableInactive),
		errors.Is(err, services.ErrInvalidOrderType),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPaymentStatus),
		errors.Is(err, services.ErrMenuItemNotFound),
		errors.Is(err, services.ErrMenuItemUnavailable),
		errors.Is(err, services.ErrMenuItemWrongCafe),
		errors.Is(err, services.ErrVariantNotFound),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidTotal),
		errors.Is(err, services.ErrBelowMinimumOrder),
		errors.Is(err, services.ErrCardNotSupported):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Order validation failed", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(fallback, err.Error()))
	}
}
