package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horvbalint/recet/internal/extraction"
)

func TestWriteJSON(t *testing.T) {
	rec := extraction.NewRecipeExtraction()
	rec.Steps = []string{"Mix."}

	var compact, pretty bytes.Buffer
	require.NoError(t, writeJSON(&compact, rec, false))
	require.NoError(t, writeJSON(&pretty, rec, true))

	assert.NotContains(t, compact.String(), "\n  ")
	assert.Contains(t, pretty.String(), "\n  \"steps\": [")
	assert.JSONEq(t, compact.String(), pretty.String())
}

func TestRunExtract_RejectsBadHousehold(t *testing.T) {
	flagHousehold = "not-a-uuid"
	t.Cleanup(func() { flagHousehold = "" })

	err := runExtract(rootCmd, []string{"https://example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--household")
}

func TestOpenFinder_NoDatabase(t *testing.T) {
	finder, closeDB, err := openFinder(discard())
	require.NoError(t, err)
	defer closeDB()
	assert.IsType(t, extraction.NopFinder{}, finder)
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }
