package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cafehub/internal/middleware"
	"cafehub/internal/services"
	"cafehub/internal/utils"
)

type UploadHandler struct {
	uploadService *services.UploadService
	cafeService   *services.CafeService
}

func NewUploadHandler(uploadService *services.UploadService, cafeService *services.CafeService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, cafeService: cafeService}
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No file in request", err.Error()))
		return
	}

	url, err := h.uploadService.SaveImage(file)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Image uploaded", gin.H{"url": url}))
}

// UploadImages accepts a multipart batch under the "files" field.
func (h *UploadHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid multipart form", err.Error()))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No files in request", ""))
		return
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.uploadService.SaveImage(file)
		if err != nil {
			h.writeUploadError(c, err)
			return
		}
		urls = append(urls, url)
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Images uploaded", gin.H{"urls": urls}))
}

func (h *UploadHandler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No file in request", err.Error()))
		return
	}

	url, err := h.uploadService.SaveDocument(file)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Document uploaded", gin.H{"url": url}))
}

// UploadCafeLogo stores the image and points the cafe's logo at it.
func (h *UploadHandler) UploadCafeLogo(c *gin.Context) {
	user := middleware.CurrentUser(c)
	cafeID := c.Param("id")
	if err := services.RequireCafeAccess(user, cafeID); err != nil {
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Access denied", ""))
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No file in request", err.Error()))
		return
	}

	url, err := h.uploadService.SaveImage(file)
	if err != nil {
		h.writeUploadError(c, err)
		return
	}

	cafe, err := h.cafeService.SetLogo(c.Request.Context(), cafeID, url)
	if err != nil {
		if errors.Is(err, services.ErrCafeNotFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Cafe not found", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to set logo", err.Error()))
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Logo updated", cafe))
}

func (h *UploadHandler) writeUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("File too large", err.Error()))
	case errors.Is(err, services.ErrUnsupportedFile):
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Unsupported file type", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Upload failed", err.Error()))
	}
}
