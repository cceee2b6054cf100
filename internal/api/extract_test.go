package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/horvbalint/recet/internal/service"
	"github.com/horvbalint/recet/internal/types"
)

func goulash() *extraction.RecipeExtraction {
	rec := extraction.NewRecipeExtraction()
	name := "Goulash"
	rec.Name = &name
	rec.Steps = []string{"Brown the beef."}
	return rec
}

func TestExtract_Success(t *testing.T) {
	env := setupTestEnv(t)
	env.extractor.On("ExtractRecipe", mock.Anything, extraction.Input{
		URL:       "https://example.com/goulash",
		Household: env.household.String(),
	}).Return(goulash(), nil).Once()

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/extract", types.ExtractRecipeRequest{URL: "https://example.com/goulash"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Recipe  map[string]any `json:"recipe"`
		DraftID *string        `json:"draft_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Goulash", resp.Recipe["name"])
	assert.Nil(t, resp.DraftID)
}

func TestExtract_SavesDraft(t *testing.T) {
	env := setupTestEnv(t)
	rec := goulash()
	env.extractor.On("ExtractRecipe", mock.Anything, mock.Anything).Return(rec, nil).Once()
	env.drafts.On("SaveDraft", mock.Anything, mock.MatchedBy(func(d *service.Draft) bool {
		return d.UserID == env.userID.String() &&
			d.Household == env.household.String() &&
			d.SourceURL == "https://example.com/goulash" &&
			d.Recipe == rec
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*service.Draft).ID = "draft-1"
	}).Return(nil).Once()

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/extract", types.ExtractRecipeRequest{URL: "https://example.com/goulash", SaveDraft: true})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"draft_id":"draft-1"`)
}

func TestExtract_DraftFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.extractor.On("ExtractRecipe", mock.Anything, mock.Anything).Return(goulash(), nil).Once()
	env.drafts.On("SaveDraft", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/extract", types.ExtractRecipeRequest{URL: "https://example.com/goulash", SaveDraft: true})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestExtract_BadRequest(t *testing.T) {
	env := setupTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/extract", map[string]string{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/v1/recipes/extract", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestExtract_RequiresAuth(t *testing.T) {
	env := setupTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/extract", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestExtract_ErrorMapping(t *testing.T) {
	tests := []struct {
		kind   extraction.ErrorKind
		state  extraction.State
		status int
	}{
		{extraction.KindConfig, extraction.StateIdle, http.StatusServiceUnavailable},
		{extraction.KindFetch, extraction.StateFetching, http.StatusBadGateway},
		{extraction.KindTextExtraction, extraction.StateTextExtracting, http.StatusUnprocessableEntity},
		{extraction.KindCompletion, extraction.StateCompleting, http.StatusBadGateway},
		{extraction.KindSchema, extraction.StateParsing, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			env := setupTestEnv(t)
			cause := &extraction.SchemaError{Raw: `{"secret":"raw model output"}`, Err: errors.New("bad")}
			env.extractor.On("ExtractRecipe", mock.Anything, mock.Anything).
				Return(nil, &extraction.PipelineError{Kind: tt.kind, State: tt.state, Err: cause}).Once()

			rr := env.do(t, http.MethodPost, "/api/v1/recipes/extract", types.ExtractRecipeRequest{URL: "https://example.com/x"})
			assert.Equal(t, tt.status, rr.Code)

			var body types.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, string(tt.kind), body.Kind)
			assert.NotContains(t, rr.Body.String(), "raw model output")
		})
	}
}

func TestExtract_UnexpectedError(t *testing.T) {
	env := setupTestEnv(t)
	env.extractor.On("ExtractRecipe", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	rr := env.do(t, http.MethodPost, "/api/v1/recipes/extract", types.ExtractRecipeRequest{URL: "https://example.com/x"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestExtractHandler_RegisterRoutesLeavesMiddlewareSliceAlone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	noop := func(c *gin.Context) { c.Next() }
	marker := func(c *gin.Context) {}

	mw := make([]gin.HandlerFunc, 1, 2)
	mw[0] = noop
	spare := mw[:2]
	spare[1] = marker

	h := NewExtractHandler(nil, nil, nil)
	h.RegisterRoutes(gin.New().Group("/api"), mw...)

	assert.Equal(t, reflect.ValueOf(marker).Pointer(), reflect.ValueOf(spare[1]).Pointer())
}
