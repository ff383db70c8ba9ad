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

type TableHandler struct {
	tableService *services.TableService
}

func NewTableHandler(tableService *services.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

func (h *TableHandler) Create(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}
	if !h.requireCafeAccess(c, req.CafeID) {
		return
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), &req)
	if err != nil {
		h.writeTableError(c, err, "Failed to create table")
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Table created", table))
}

func (h *TableHandler) List(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	tables, err := h.tableService.ListTables(c.Request.Context(), cafeID, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list tables", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Tables retrieved", tables))
}

// ListPublic is what the QR landing page uses: active tables only.
func (h *TableHandler) ListPublic(c *gin.Context) {
	tables, err := h.tableService.ListTables(c.Request.Context(), c.Param("cafe_id"), true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list tables", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Tables retrieved", tables))
}

func (h *TableHandler) Get(c *gin.Context) {
	table, err := h.tableService.GetTable(c.Request.Context(), c.Param("table_id"))
	if err != nil {
		h.writeTableError(c, err, "Failed to retrieve table")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Table retrieved", table))
}

func (h *TableHandler) RegenerateQR(c *gin.Context) {
	table, err := h.tableService.GetTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeTableError(c, err, "Failed to regenerate QR")
		return
	}
	if !h.requireCafeAccess(c, table.CafeID) {
		return
	}

	updated, err := h.tableService.RegenerateQR(c.Request.Context(), table.ID)
	if err != nil {
		h.writeTableError(c, err, "Failed to regenerate QR")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("QR code regenerated", updated))
}

func (h *TableHandler) Activate(c *gin.Context) {
	h.setActive(c, true, "Table activated")
}

func (h *TableHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false, "Table deactivated")
}

func (h *TableHandler) setActive(c *gin.Context, active bool, message string) {
	table, err := h.tableService.GetTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeTableError(c, err, "Failed to update table")
		return
	}
	if !h.requireCafeAccess(c, table.CafeID) {
		return
	}

	updated, err := h.tableService.SetActive(c.Request.Context(), table.ID, active)
	if err != nil {
		h.writeTableError(c, err, "Failed to update table")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse(message, updated))
}

func (h *TableHandler) Delete(c *gin.Context) {
	table, err := h.tableService.GetTable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeTableError(c, err, "Failed to delete table")
		return
	}
	if !h.requireCafeAccess(c, table.CafeID) {
		return
	}

	if err := h.tableService.DeleteTable(c.Request.Context(), table.ID); err != nil {
		h.writeTableError(c, err, "Failed to delete table")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Table deleted", nil))
}

func (h *TableHandler) requireCafeAccess(c *gin.Context, cafeID string) bool {
	if err := services.RequireCafeAccess(middleware.CurrentUser(c), cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return false
	}
	return true
}

func (h *TableHandler) writeTableError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Table not found", ""))
	case errors.Is(err, services.ErrCafeNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
	case errors.Is(err, services.ErrTableNumberTaken):
		c.JSON(http.StatusConflict, utils.ErrorResponse("Table number already in use", err.Error()))
	case errors.Is(err, services.ErrTableNotLast):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Tables must be deleted from the highest number down", err.Error()))
	case errors.Is(err, services.ErrTableHasActiveOrders):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Table has active orders", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(fallback, err.Error()))
	}
}
