package mocks

import (
	"context"

	"github.com/horvbalint/recet/config"
	"github.com/horvbalint/recet/internal/extraction"
	"github.com/stretchr/testify/mock"
)

// MockFetcher is a mock implementation of extraction.Fetcher
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchText(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// MockTextExtractor is a mock implementation of extraction.TextExtractor
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) PlainText(html string) string {
	args := m.Called(html)
	return args.String(0)
}

// MockCompleter is a mock implementation of extraction.Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req extraction.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// MockFinder is a mock implementation of extraction.Finder
type MockFinder struct {
	mock.Mock
}

func (m *MockFinder) FindReference(ctx context.Context, lookup extraction.Lookup) (*extraction.Reference, error) {
	args := m.Called(ctx, lookup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Reference), args.Error(1)
}

// MockConfigSource is a mock implementation of extraction.ConfigSource
type MockConfigSource struct {
	mock.Mock
}

func (m *MockConfigSource) Load() (config.CompletionConfig, error) {
	args := m.Called()
	return args.Get(0).(config.CompletionConfig), args.Error(1)
}

// MockExtractor is a mock of the pipeline entry point used by the API
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractRecipe(ctx context.Context, in extraction.Input) (*extraction.RecipeExtraction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.RecipeExtraction), args.Error(1)
}
