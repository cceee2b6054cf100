package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/horvbalint/recet/internal/service"
	"github.com/horvbalint/recet/internal/types"
)

// ImageHandler handles image normalization requests
type ImageHandler struct {
	images service.IImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(images service.IImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterRoutes registers the image routes
func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/images/normalize", h.Normalize)
}

// Normalize downloads a recipe image, normalizes it and stores it
func (h *ImageHandler) Normalize(c *gin.Context) {
	var req types.NormalizeImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	img, err := h.images.NormalizeFromURL(c.Request.Context(), req.URL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, types.ErrorResponse{Error: "failed to normalize image"})
		return
	}

	c.JSON(http.StatusOK, types.NormalizeImageResponse{
		URL:      img.URL,
		Blurhash: img.Blurhash,
		Width:    img.Width,
		Height:   img.Height,
	})
}
