package mocks

import (
	"context"

	"docportal/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Teams(ctx context.Context, activeOnly bool) ([]model.Team, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Team), args.Error(1)
}

func (m *MockTeamRepository) Team(ctx context.Context, teamID string) (model.Team, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(model.Team), args.Error(1)
}

func (m *MockTeamRepository) CreateTeam(ctx context.Context, in model.TeamInput) (model.Team, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.Team), args.Error(1)
}

func (m *MockTeamRepository) UpdateTeam(ctx context.Context, teamID string, in model.TeamInput) (model.Team, error) {
	args := m.Called(ctx, teamID, in)
	return args.Get(0).(model.Team), args.Error(1)
}

func (m *MockTeamRepository) DeleteTeam(ctx context.Context, teamID string) (model.Result, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockTeamRepository) Members(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) InviteMember(ctx context.Context, teamID, email string, role model.TeamRole) (*model.TeamMember, error) {
	args := m.Called(ctx, teamID, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, memberID string) (model.Result, error) {
	args := m.Called(ctx, teamID, memberID)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockTeamRepository) UpdateMemberRole(ctx context.Context, teamID, memberID string, role model.TeamRole) (model.Result, error) {
	args := m.Called(ctx, teamID, memberID, role)
	return args.Get(0).(model.Result), args.Error(1)
}

func (m *MockTeamRepository) LeaveTeam(ctx context.Context, teamID string) (model.Result, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).(model.Result), args.Error(1)
}
