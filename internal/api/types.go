package api

import (
	"context"

	"github.com/horvbalint/recet/internal/extraction"
)

// Extractor runs one recipe extraction. *extraction.Pipeline implements it.
type Extractor interface {
	ExtractRecipe(ctx context.Context, in extraction.Input) (*extraction.RecipeExtraction, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
