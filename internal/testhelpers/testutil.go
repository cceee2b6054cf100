package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/horvbalint/recet/internal/types"
)

// CreateTestToken signs an HS256 token for userID and household with secret.
func CreateTestToken(t *testing.T, secret string, userID uuid.UUID, household *uuid.UUID) string {
	t.Helper()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:      userID,
		HouseholdID: household,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// JSONMarshal marshals v or fails the test.
func JSONMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return data
}

// ChatCompletionServer serves an OpenAI-compatible chat completions endpoint
// answering each call with the next entry of contents. The last entry repeats
// once the list runs out.
func ChatCompletionServer(t *testing.T, contents ...string) *httptest.Server {
	t.Helper()
	if len(contents) == 0 {
		t.Fatal("ChatCompletionServer needs at least one response")
	}

	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		content := contents[min(calls, len(contents)-1)]
		calls++
		mu.Unlock()

		body, err := json.Marshal(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}
