package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/horvbalint/recet/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model          string `json:"model"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, status int, body string, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func chatResponse(content string) string {
	payload := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func TestCompletionService_Complete(t *testing.T) {
	var seen chatRequest
	srv := completionServer(t, http.StatusOK, chatResponse(`{"name":"Soup"}`), &seen)

	svc := NewCompletionService(srv.Client())
	out, err := svc.Complete(context.Background(), extraction.CompletionRequest{
		Model:      "test-model",
		Endpoint:   srv.URL + "/",
		Credential: "secret-token",
		System:     "system prompt",
		User:       "page text",
		Followups: []extraction.Message{
			{Role: "assistant", Content: "not json"},
			{Role: "user", Content: "fix it"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Soup"}`, out)

	assert.Equal(t, "test-model", seen.Model)
	assert.Equal(t, "json_object", seen.ResponseFormat.Type)
	require.Len(t, seen.Messages, 4)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, "system prompt", seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "page text", seen.Messages[1].Content)
	assert.Equal(t, "assistant", seen.Messages[2].Role)
	assert.Equal(t, "user", seen.Messages[3].Role)
}

func TestCompletionService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, "rejected credentials"},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "rate limited"},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, "status 500"},
		{"no choices", http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, "no choices"},
		{"empty content", http.StatusOK, chatResponse(""), "empty content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := completionServer(t, tt.status, tt.body, nil)
			svc := NewCompletionService(srv.Client())
			_, err := svc.Complete(context.Background(), extraction.CompletionRequest{
				Model:      "m",
				Endpoint:   srv.URL,
				Credential: "secret-token",
				System:     "s",
				User:       "u",
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompletionService_Unreachable(t *testing.T) {
	svc := NewCompletionService(nil)
	_, err := svc.Complete(context.Background(), extraction.CompletionRequest{
		Model:      "m",
		Endpoint:   "http://127.0.0.1:1",
		Credential: "secret-token",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "completion request failed")
}
