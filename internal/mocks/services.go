package mocks

import (
	"context"

	"github.com/horvbalint/recet/internal/service"
	"github.com/horvbalint/recet/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockAuthService is a mock implementation of service.IAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TokenClaims), args.Error(1)
}

// MockDraftService is a mock implementation of service.IDraftService
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) SaveDraft(ctx context.Context, draft *service.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftService) GetDraft(ctx context.Context, id string) (*service.Draft, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Draft), args.Error(1)
}

func (m *MockDraftService) DeleteDraft(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockImageService is a mock implementation of service.IImageService
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) NormalizeFromURL(ctx context.Context, imageURL string) (*service.NormalizedImage, error) {
	args := m.Called(ctx, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NormalizedImage), args.Error(1)
}
