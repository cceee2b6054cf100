package service

import (
	"context"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/types"
)

// IDraftService defines the interface for extraction draft storage
type IDraftService interface {
	SaveDraft(ctx context.Context, draft *Draft) error
	GetDraft(ctx context.Context, id string) (*Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// IImageService defines the interface for image normalization
type IImageService interface {
	NormalizeFromURL(ctx context.Context, imageURL string) (*NormalizedImage, error)
}

// IAuthService defines the interface for token validation
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

var (
	_ extraction.Fetcher       = (*PageFetcher)(nil)
	_ extraction.TextExtractor = (*HTMLTextExtractor)(nil)
	_ extraction.Completer     = (*CompletionService)(nil)
	_ extraction.Finder        = (*ReferenceService)(nil)
	_ IDraftService            = (*DraftService)(nil)
	_ IImageService            = (*ImageService)(nil)
	_ IAuthService             = (*AuthService)(nil)
)
