package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/horvbalint/recet/internal/extraction"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const defaultCompletionTimeout = 120 * time.Second

// CompletionService talks to an OpenAI-compatible chat completions endpoint.
// Endpoint and credential come with every request, so a client is built per call.
type CompletionService struct {
	httpClient *http.Client
}

// NewCompletionService creates a CompletionService. A nil client gets a 120s timeout.
func NewCompletionService(httpClient *http.Client) *CompletionService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultCompletionTimeout}
	}
	return &CompletionService{httpClient: httpClient}
}

// Complete sends one JSON-mode chat completion and returns the assistant content.
// The SDK's own retries are disabled.
func (s *CompletionService) Complete(ctx context.Context, req extraction.CompletionRequest) (string, error) {
	client := openai.NewClient(
		option.WithAPIKey(req.Credential),
		option.WithBaseURL(strings.TrimRight(req.Endpoint, "/")+"/v1/"),
		option.WithHTTPClient(s.httpClient),
		option.WithMaxRetries(0),
	)

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(req.System),
		openai.UserMessage(req.User),
	}
	for _, m := range req.Followups {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return "", mapCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("completion response has empty content")
	}
	return content, nil
}

func mapCompletionError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("completion service rejected credentials (status %d): %w", apiErr.StatusCode, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("completion service rate limited (status %d): %w", apiErr.StatusCode, err)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("completion service error (status %d): %s", apiErr.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("completion service error (status %d)", apiErr.StatusCode)
	}
	return fmt.Errorf("completion request failed: %w", err)
}
