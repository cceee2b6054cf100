package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/horvbalint/recet/internal/extraction"
	"github.com/redis/go-redis/v9"
)

// DraftTTL is how long an extraction draft is kept.
const DraftTTL = 24 * time.Hour

// ErrDraftNotFound is returned when a draft does not exist or has expired.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is an extraction result parked until the user saves it as a recipe.
type Draft struct {
	ID        string                       `json:"id"`
	UserID    string                       `json:"user_id"`
	Household string                       `json:"household,omitempty"`
	SourceURL string                       `json:"source_url"`
	Recipe    *extraction.RecipeExtraction `json:"recipe"`
	CreatedAt time.Time                    `json:"created_at"`
}

// DraftService stores extraction drafts in Redis
type DraftService struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewDraftService creates a new DraftService instance
func NewDraftService(client *redis.Client) *DraftService {
	return &DraftService{redis: client, ttl: DraftTTL}
}

func draftKey(id string) string {
	return fmt.Sprintf("recipe:extraction:draft:%s", id)
}

// SaveDraft assigns an ID to draft and stores it
func (s *DraftService) SaveDraft(ctx context.Context, draft *Draft) error {
	draft.ID = uuid.New().String()
	draft.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := s.redis.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft to Redis: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by ID
func (s *DraftService) GetDraft(ctx context.Context, id string) (*Draft, error) {
	data, err := s.redis.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from Redis: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}
	return &draft, nil
}

// DeleteDraft removes a draft. Deleting a missing draft is not an error.
func (s *DraftService) DeleteDraft(ctx context.Context, id string) error {
	if err := s.redis.Del(ctx, draftKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from Redis: %w", err)
	}
	return nil
}
