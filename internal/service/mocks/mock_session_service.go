package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/tokens"
)

type MockSessionService struct {
	mock.Mock
}

var _ service.SessionService = (*MockSessionService)(nil)

func (m *MockSessionService) Login(ctx context.Context, p repository.ExchangeParams) (tokens.Record, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(tokens.Record), args.Error(1)
}

func (m *MockSessionService) EnsureFresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionService) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionService) Logout(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionService) Profile(ctx context.Context) (service.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.Profile), args.Error(1)
}
