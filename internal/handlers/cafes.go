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

type CafeHandler struct {
	cafeService *services.CafeService
}

func NewCafeHandler(cafeService *services.CafeService) *CafeHandler {
	return &CafeHandler{cafeService: cafeService}
}

func (h *CafeHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.CreateCafeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	cafe, err := h.cafeService.CreateCafe(c.Request.Context(), user, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to create cafe", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Cafe created", models.NewCafeResponse(cafe)))
}

// ListPublic returns active cafes; the storefront directory.
func (h *CafeHandler) ListPublic(c *gin.Context) {
	cafes, err := h.cafeService.ListPublic(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list cafes", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Cafes retrieved", toCafeResponses(cafes)))
}

// ListOwned returns the caller's cafes for the operator dashboard.
func (h *CafeHandler) ListOwned(c *gin.Context) {
	user := middleware.CurrentUser(c)

	cafes, err := h.cafeService.ListOwned(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list cafes", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Cafes retrieved", toCafeResponses(cafes)))
}

func (h *CafeHandler) Get(c *gin.Context) {
	cafe, err := h.cafeService.GetCafe(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to retrieve cafe", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Cafe retrieved", models.NewCafeResponse(cafe)))
}

func (h *CafeHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	cafeID := c.Param("id")
	if err := services.RequireCafeAccess(user, cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return
	}

	var req models.UpdateCafeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	cafe, err := h.cafeService.UpdateCafe(c.Request.Context(), cafeID, &req)
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to update cafe", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Cafe updated", models.NewCafeResponse(cafe)))
}

func (h *CafeHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	cafeID := c.Param("id")
	if err := services.RequireCafeAccess(user, cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return
	}

	if err := h.cafeService.Deactivate(c.Request.Context(), cafeID); err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to deactivate cafe", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Cafe deactivated", nil))
}

func (h *CafeHandler) Rate(c *gin.Context) {
	var req models.RateCafeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	cafe, err := h.cafeService.Rate(c.Request.Context(), c.Param("id"), req.Rating)
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to rate cafe", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Rating recorded", models.NewCafeResponse(cafe)))
}

func toCafeResponses(cafes []*models.Cafe) []models.CafeResponse {
	out := make([]models.CafeResponse, 0, len(cafes))
	for _, cafe := range cafes {
		out = append(out, models.NewCafeResponse(cafe))
	}
	return out
}
