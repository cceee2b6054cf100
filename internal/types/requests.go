package types

import (
	"time"

	"github.com/horvbalint/recet/internal/extraction"
)

// ExtractRecipeRequest is the body of POST /api/v1/recipes/extract
type ExtractRecipeRequest struct {
	URL       string `json:"url" binding:"required,url"`
	SaveDraft bool   `json:"save_draft"`
}

// ExtractRecipeResponse carries the resolved recipe and, when requested, the draft id.
type ExtractRecipeResponse struct {
	Recipe  *extraction.RecipeExtraction `json:"recipe"`
	DraftID string                       `json:"draft_id,omitempty"`
}

// DraftResponse is a stored extraction draft.
type DraftResponse struct {
	ID        string                       `json:"id"`
	SourceURL string                       `json:"source_url"`
	Recipe    *extraction.RecipeExtraction `json:"recipe"`
	CreatedAt time.Time                    `json:"created_at"`
}

// NormalizeImageRequest is the body of POST /api/v1/images/normalize
type NormalizeImageRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// NormalizeImageResponse describes the stored, normalized image.
type NormalizeImageResponse struct {
	URL      string `json:"url"`
	Blurhash string `json:"blurhash"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
