package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docportal/internal/model"
	"docportal/internal/repository"
	repoMocks "docportal/internal/repository/mocks"
)

func TestValidEmail(t *testing.T) {
	for _, ok := range []string{"ana@example.com", "a.b+c@sub.example.org"} {
		assert.True(t, ValidEmail(ok), ok)
	}
	for _, bad := range []string{"", "ana", "ana@", "@example.com", "Ana <ana@example.com>", "ana@localhost", "ana @example.com"} {
		assert.False(t, ValidEmail(bad), bad)
	}
}

func TestTeamService_Invite(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		teamID     string
		email      string
		role       model.TeamRole
		setupMocks func(m *repoMocks.MockTeamRepository)
		wantErr    error
	}{
		{
			name:   "happy path",
			teamID: "t1",
			email:  "  new@example.com ",
			role:   model.RoleAdmin,
			setupMocks: func(m *repoMocks.MockTeamRepository) {
				m.On("InviteMember", ctx, "t1", "new@example.com", model.RoleAdmin).
					Return(&model.TeamMember{ID: "m1", Email: "new@example.com", Role: model.RoleAdmin}, nil)
			},
		},
		{
			name:   "empty role defaults to member",
			teamID: "t1",
			email:  "new@example.com",
			setupMocks: func(m *repoMocks.MockTeamRepository) {
				m.On("InviteMember", ctx, "t1", "new@example.com", model.RoleMember).Return(nil, nil)
			},
		},
		{
			name:    "invalid email never reaches the backend",
			teamID:  "t1",
			email:   "not-an-email",
			role:    model.RoleMember,
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "invalid role",
			teamID:  "t1",
			email:   "new@example.com",
			role:    "boss",
			wantErr: ErrInvalidRole,
		},
		{
			name:    "missing team",
			email:   "new@example.com",
			wantErr: ErrIDRequired,
		},
		{
			name:   "backend error",
			teamID: "t1",
			email:  "new@example.com",
			role:   model.RoleMember,
			setupMocks: func(m *repoMocks.MockTeamRepository) {
				m.On("InviteMember", ctx, "t1", "new@example.com", model.RoleMember).Return(nil, errors.New("HTTP 409: already a member"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockTeamRepository)
			if tt.setupMocks != nil {
				tt.setupMocks(repo)
			}
			svc := NewTeamService(func() repository.TeamRepository { return repo })

			_, err := svc.Invite(ctx, tt.teamID, tt.email, tt.role)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "InviteMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			case tt.name == "backend error":
				assert.ErrorContains(t, err, "already a member")
			default:
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestTeamService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockTeamRepository)
	svc := NewTeamService(func() repository.TeamRepository { return repo })

	repo.On("CreateTeam", ctx, model.TeamInput{Name: "Design", Description: "ux"}).
		Return(model.Team{ID: "t1", Name: "Design"}, nil).Once()
	repo.On("UpdateTeam", ctx, "t1", model.TeamInput{Name: "Design 2"}).
		Return(model.Team{ID: "t1", Name: "Design 2"}, nil).Once()

	team, err := svc.Create(ctx, model.TeamInput{Name: "  Design ", Description: " ux "})
	assert.NoError(t, err)
	assert.Equal(t, "t1", team.ID)

	team, err = svc.Update(ctx, "t1", model.TeamInput{Name: "Design 2 "})
	assert.NoError(t, err)
	assert.Equal(t, "Design 2", team.Name)

	_, err = svc.Create(ctx, model.TeamInput{Name: "   "})
	assert.ErrorIs(t, err, ErrTeamNameRequired)
	_, err = svc.Update(ctx, "", model.TeamInput{Name: "x"})
	assert.ErrorIs(t, err, ErrIDRequired)

	repo.AssertExpectations(t)
}

func TestTeamService_Membership(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockTeamRepository)
	svc := NewTeamService(func() repository.TeamRepository { return repo })

	repo.On("Members", ctx, "t1").Return([]model.TeamMember{{ID: "m1"}}, nil)
	repo.On("RemoveMember", ctx, "t1", "m1").Return(model.Result{Success: true}, nil)
	repo.On("UpdateMemberRole", ctx, "t1", "m1", model.RoleOwner).Return(model.Result{Success: true}, nil)
	repo.On("LeaveTeam", ctx, "t1").Return(model.Result{Success: true}, nil)
	repo.On("DeleteTeam", ctx, "t1").Return(model.Result{Success: true, Message: "gone"}, nil)

	members, err := svc.Members(ctx, "t1")
	assert.NoError(t, err)
	assert.Len(t, members, 1)

	res, err := svc.RemoveMember(ctx, "t1", "m1")
	assert.NoError(t, err)
	assert.True(t, res.Success)

	res, err = svc.ChangeRole(ctx, "t1", "m1", model.ParseRole(" OWNER "))
	assert.NoError(t, err)
	assert.True(t, res.Success)

	_, err = svc.ChangeRole(ctx, "t1", "m1", "root")
	assert.ErrorIs(t, err, ErrInvalidRole)

	res, err = svc.Leave(ctx, "t1")
	assert.NoError(t, err)
	assert.True(t, res.Success)

	res, err = svc.Delete(ctx, "t1")
	assert.NoError(t, err)
	assert.Equal(t, "gone", res.Message)

	_, err = svc.RemoveMember(ctx, "t1", "")
	assert.ErrorIs(t, err, ErrIDRequired)

	repo.AssertExpectations(t)
}

func TestTeamService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockTeamRepository)
	svc := NewTeamService(func() repository.TeamRepository { return repo })

	repo.On("Team", ctx, "t1").Return(model.Team{ID: "t1", Name: "Ops"}, nil).Once()

	team, err := svc.Get(ctx, "t1")
	assert.NoError(t, err)
	assert.Equal(t, "Ops", team.Name)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrIDRequired)
	repo.AssertExpectations(t)
}

func TestTeamService_ResolvesRepositoryPerCall(t *testing.T) {
	ctx := context.Background()
	first := new(repoMocks.MockTeamRepository)
	second := new(repoMocks.MockTeamRepository)
	current := first
	svc := NewTeamService(func() repository.TeamRepository { return current })

	first.On("Teams", ctx, true).Return([]model.Team{{ID: "first"}}, nil).Once()
	second.On("Teams", ctx, true).Return([]model.Team{{ID: "second"}}, nil).Once()

	teams, err := svc.List(ctx, true)
	assert.NoError(t, err)
	assert.Equal(t, "first", teams[0].ID)

	current = second
	teams, err = svc.List(ctx, true)
	assert.NoError(t, err)
	assert.Equal(t, "second", teams[0].ID)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}
