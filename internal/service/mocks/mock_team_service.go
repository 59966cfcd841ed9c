package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docportal/internal/model"
	"docportal/internal/service"
)

type MockTeamService struct {
	mock.Mock
}

var _ service.TeamService = (*MockTeamService)(nil)

func (m *MockTeamService) List(ctx context.Context, activeOnly bool) ([]model.Team, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Team), args.Error(1)
}

func (m *MockTeamService) Get(ctx context.Context, teamID string) (model.Team, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(model.Team), args.Error(1)
}

func (m *MockTeamService) Create(ctx context.Context, in model.TeamInput) (model.Team, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Team), args.Error(1)
}

func (m *MockTeamService) Update(ctx context.Context, teamID string, in model.TeamInput) (model.Team, error) {
	args := m.Called(ctx, teamID, in)
	return args.Get(0).(model.Team), args.Error(1)
}

func (m *MockTeamService) Delete(ctx context.Context, teamID string) (model.Result, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockTeamService) Members(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamMember), args.Error(1)
}

func (m *MockTeamService) Invite(ctx context.Context, teamID, email string, role model.TeamRole) (*model.TeamMember, error) {
	args := m.Called(ctx, teamID, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamMember), args.Error(1)
}

func (m *MockTeamService) RemoveMember(ctx context.Context, teamID, memberID string) (model.Result, error) {
	args := m.Called(ctx, teamID, memberID)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockTeamService) ChangeRole(ctx context.Context, teamID, memberID string, role model.TeamRole) (model.Result, error) {
	args := m.Called(ctx, teamID, memberID, role)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockTeamService) Leave(ctx context.Context, teamID string) (model.Result, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(model.Result), args.Error(1)
}
