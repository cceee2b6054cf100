package service

import (
	"context"
	"testing"
	"time"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	client := testhelpers.SetupRedis(t)
	svc := NewDraftService(client)
	ctx := context.Background()

	name := "Goulash"
	recipe := extraction.NewRecipeExtraction()
	recipe.Name = &name
	recipe.Steps = []string{"Brown the beef."}

	draft := &Draft{UserID: "user-1", SourceURL: "https://example.com/goulash", Recipe: recipe}
	require.NoError(t, svc.SaveDraft(ctx, draft))
	require.NotEmpty(t, draft.ID)
	assert.False(t, draft.CreatedAt.IsZero())

	ttl, err := client.TTL(ctx, draftKey(draft.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, DraftTTL-time.Minute)

	got, err := svc.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "https://example.com/goulash", got.SourceURL)
	require.NotNil(t, got.Recipe.Name)
	assert.Equal(t, "Goulash", *got.Recipe.Name)
	assert.Equal(t, []string{"Brown the beef."}, got.Recipe.Steps)

	require.NoError(t, svc.DeleteDraft(ctx, draft.ID))
	_, err = svc.GetDraft(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	// deleting twice is fine
	assert.NoError(t, svc.DeleteDraft(ctx, draft.ID))
}

func TestDraftKey(t *testing.T) {
	assert.Equal(t, "recipe:extraction:draft:abc", draftKey("abc"))
}
