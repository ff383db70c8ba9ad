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

type MenuHandler struct {
	menuService *services.MenuService
}

func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}
	if !h.requireCafeAccess(c, req.CafeID) {
		return
	}

	category, err := h.menuService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create category", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Category created", category))
}

func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context(), c.Param("cafe_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list categories", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Categories retrieved", categories))
}

func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	category, err := h.menuService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeMenuError(c, err, "Failed to update category")
		return
	}
	if !h.requireCafeAccess(c, category.CafeID) {
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	updated, err := h.menuService.UpdateCategory(c.Request.Context(), category.ID, &req)
	if err != nil {
		h.writeMenuError(c, err, "Failed to update category")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Category updated", updated))
}

func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	category, err := h.menuService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeMenuError(c, err, "Failed to delete category")
		return
	}
	if !h.requireCafeAccess(c, category.CafeID) {
		return
	}

	if err := h.menuService.DeleteCategory(c.Request.Context(), category.ID); err != nil {
		h.writeMenuError(c, err, "Failed to delete category")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Category deleted", nil))
}

func (h *MenuHandler) CreateItem(c *gin.Context) {
	var req models.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}
	if !h.requireCafeAccess(c, req.CafeID) {
		return
	}

	item, err := h.menuService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		h.writeMenuError(c, err, "Failed to create menu item")
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Menu item created", item))
}

// ListItems is the public menu: available items only.
func (h *MenuHandler) ListItems(c *gin.Context) {
	items, err := h.menuService.ListAvailableItems(c.Request.Context(), c.Param("cafe_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list menu items", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Menu items retrieved", items))
}

// ListAllItems is the management view including unavailable items.
func (h *MenuHandler) ListAllItems(c *gin.Context) {
	cafeID := c.Param("cafe_id")
	if !h.requireCafeAccess(c, cafeID) {
		return
	}

	items, err := h.menuService.ListItems(c.Request.Context(), cafeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list menu items", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Menu items retrieved", items))
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	item, err := h.menuService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeMenuError(c, err, "Failed to update menu item")
		return
	}
	if !h.requireCafeAccess(c, item.CafeID) {
		return
	}

	var req models.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	updated, err := h.menuService.UpdateItem(c.Request.Context(), item.ID, &req)
	if err != nil {
		h.writeMenuError(c, err, "Failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Menu item updated", updated))
}

func (h *MenuHandler) DeleteItem(c *gin.Context) {
	item, err := h.menuService.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeMenuError(c, err, "Failed to delete menu item")
		return
	}
	if !h.requireCafeAccess(c, item.CafeID) {
		return
	}

	if err := h.menuService.DeleteItem(c.Request.Context(), item.ID); err != nil {
		h.writeMenuError(c, err, "Failed to delete menu item")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Menu item deleted", nil))
}

func (h *MenuHandler) ReorderItems(c *gin.Context) {
	var req models.ReorderMenuItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}
	if !h.requireCafeAccess(c, req.CafeID) {
		return
	}

	if err := h.menuService.ReorderItems(c.Request.Context(), &req); err != nil {
		h.writeMenuError(c, err, "Failed to reorder menu items")
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Menu items reordered", nil))
}

func (h *MenuHandler) requireCafeAccess(c *gin.Context, cafeID string) bool {
	if err := services.RequireCafeAccess(middleware.CurrentUser(c), cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return false
	}
	return true
}

func (h *MenuHandler) writeMenuError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Category not found", ""))
	case errors.Is(err, services.ErrMenuItemNotFound):
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Menu item not found", ""))
	case errors.Is(err, services.ErrCategoryWrongCafe), errors.Is(err, services.ErrMenuItemWrongCafe):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Resource belongs to a different cafe", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse(fallback, err.Error()))
	}
}
