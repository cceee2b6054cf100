package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/middleware"
	"github.com/horvbalint/recet/internal/service"
	"github.com/horvbalint/recet/internal/types"
)

// ExtractHandler turns recipe pages into structured, resolved recipes
type ExtractHandler struct {
	extractor Extractor
	drafts    service.IDraftService
	logger    *slog.Logger
}

// NewExtractHandler creates a new ExtractHandler
func NewExtractHandler(extractor Extractor, drafts service.IDraftService, logger *slog.Logger) *ExtractHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractHandler{extractor: extractor, drafts: drafts, logger: logger}
}

// RegisterRoutes registers the extraction routes. Handlers in mw run before
// the extraction handler, typically auth and rate limiting.
func (h *ExtractHandler) RegisterRoutes(router *gin.RouterGroup, mw ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, mw...), h.Extract)
	router.POST("/recipes/extract", handlers...)
}

// Extract handles POST /recipes/extract
func (h *ExtractHandler) Extract(c *gin.Context) {
	var req types.ExtractRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error()})
		return
	}

	household := middleware.Household(c)
	recipe, err := h.extractor.ExtractRecipe(c.Request.Context(), extraction.Input{URL: req.URL, Household: household})
	if err != nil {
		status, msg, kind := extractionStatus(err)
		h.logger.Warn("extraction request failed", "url", req.URL, "kind", string(kind), "status", status)
		c.JSON(status, types.ErrorResponse{Error: msg, Kind: string(kind)})
		return
	}

	resp := types.ExtractRecipeResponse{Recipe: recipe}
	if req.SaveDraft {
		draft := &service.Draft{
			UserID:    middleware.UserID(c),
			Household: household,
			SourceURL: req.URL,
			Recipe:    recipe,
		}
		if err := h.drafts.SaveDraft(c.Request.Context(), draft); err != nil {
			h.logger.Error("failed to save extraction draft", "url", req.URL, "error", err)
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to save draft"})
			return
		}
		resp.DraftID = draft.ID
	}

	c.JSON(http.StatusOK, resp)
}
