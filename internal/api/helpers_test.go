package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/horvbalint/recet/internal/mocks"
	"github.com/horvbalint/recet/internal/types"
)

type testEnv struct {
	router    *gin.Engine
	extractor *mocks.MockExtractor
	drafts    *mocks.MockDraftService
	images    *mocks.MockImageService
	auth      *mocks.MockAuthService
	userID    uuid.UUID
	household uuid.UUID
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		router:    gin.New(),
		extractor: new(mocks.MockExtractor),
		drafts:    new(mocks.MockDraftService),
		images:    new(mocks.MockImageService),
		auth:      new(mocks.MockAuthService),
		userID:    uuid.New(),
		household: uuid.New(),
	}
	env.auth.On("ValidateToken", "good-token").Return(&types.TokenClaims{UserID: env.userID, HouseholdID: &env.household}, nil)
	env.auth.On("ValidateToken", mock.Anything).Return(nil, errors.New("invalid token"))

	RegisterRoutes(env.router, Dependencies{
		Extractor: env.extractor,
		Drafts:    env.drafts,
		Images:    env.images,
		Auth:      env.auth,
	})

	t.Cleanup(func() {
		env.extractor.AssertExpectations(t)
		env.drafts.AssertExpectations(t)
		env.images.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}
