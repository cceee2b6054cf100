package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/horvbalint/recet/internal/middleware"
	"github.com/horvbalint/recet/internal/service"
	"github.com/horvbalint/recet/internal/types"
)

// DraftHandler serves extraction drafts to their owners
type DraftHandler struct {
	drafts service.IDraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts service.IDraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

// RegisterRoutes registers the draft routes
func (h *DraftHandler) RegisterRoutes(router *gin.RouterGroup) {
	drafts := router.Group("/drafts")
	{
		drafts.GET("/:id", h.GetDraft)
		drafts.DELETE("/:id", h.DeleteDraft)
	}
}

// ownedDraft loads the draft named in the path. It writes the error response
// and returns nil when the draft is missing or belongs to someone else.
func (h *DraftHandler) ownedDraft(c *gin.Context) *service.Draft {
	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "draft not found"})
		return nil
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to load draft"})
		return nil
	}
	// Someone else's draft looks the same as a missing one.
	if draft.UserID != middleware.UserID(c) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{Error: "draft not found"})
		return nil
	}
	return draft
}

// GetDraft handles GET /drafts/:id
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draft := h.ownedDraft(c)
	if draft == nil {
		return
	}
	c.JSON(http.StatusOK, types.DraftResponse{
		ID:        draft.ID,
		SourceURL: draft.SourceURL,
		Recipe:    draft.Recipe,
		CreatedAt: draft.CreatedAt,
	})
}

// DeleteDraft handles DELETE /drafts/:id
func (h *DraftHandler) DeleteDraft(c *gin.Context) {
	draft := h.ownedDraft(c)
	if draft == nil {
		return
	}
	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "failed to delete draft"})
		return
	}
	c.Status(http.StatusNoContent)
}
