package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docportal/internal/service"
)

type MockMirrorService struct {
	mock.Mock
}

var _ service.MirrorService = (*MockMirrorService)(nil)

func (m *MockMirrorService) Mirror(ctx context.Context, opt service.MirrorOptions) ([]service.MirrorResult, error) {
	args := m.Called(ctx, opt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.MirrorResult), args.Error(1)
}
