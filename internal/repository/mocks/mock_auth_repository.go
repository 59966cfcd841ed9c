package mocks

import (
	"context"

	"docportal/internal/repository"
	"docportal/internal/tokens"

	"github.com/stretchr/testify/mock"
)

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) Exchange(ctx context.Context, p repository.ExchangeParams) (tokens.TokenSet, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(tokens.TokenSet), args.Error(1)
}

func (m *MockAuthRepository) Refresh(ctx context.Context, refreshToken string) (tokens.TokenSet, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(tokens.TokenSet), args.Error(1)
}

func (m *MockAuthRepository) Revoke(ctx context.Context, p repository.RevokeParams) bool {
	args := m.Called(ctx, p)
	return args.Bool(0)
}

func (m *MockAuthRepository) Me(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}
