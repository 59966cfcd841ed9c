package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"docportal/internal/model"
	"docportal/internal/repository"
)

var (
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrInvalidRole      = errors.New("invalid team role")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrIDRequired       = errors.New("id is required")
)

// TeamService applies business rules before delegating to the team
// repository.
type TeamService interface {
	List(ctx context.Context, activeOnly bool) ([]model.Team, error)
	Get(ctx context.Context, teamID string) (model.Team, error)
	Create(ctx context.Context, in model.TeamInput) (model.Team, error)
	Update(ctx context.Context, teamID string, in model.TeamInput) (model.Team, error)
	Delete(ctx context.Context, teamID string) (model.Result, error)
	Members(ctx context.Context, teamID string) ([]model.TeamMember, error)
	// Invite validates the address and role before contacting the backend.
	Invite(ctx context.Context, teamID, email string, role model.TeamRole) (*model.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, memberID string) (model.Result, error)
	ChangeRole(ctx context.Context, teamID, memberID string, role model.TeamRole) (model.Result, error)
	Leave(ctx context.Context, teamID string) (model.Result, error)
}

type teamService struct {
	repo func() repository.TeamRepository
}

// NewTeamService constructs a TeamService. repo is called on every
// operation, so passing repository.Teams follows registry swaps.
func NewTeamService(repo func() repository.TeamRepository) TeamService {
	return &teamService{repo: repo}
}

func (s *teamService) List(ctx context.Context, activeOnly bool) ([]model.Team, error) {
	return s.repo().Teams(ctx, activeOnly)
}

func (s *teamService) Get(ctx context.Context, teamID string) (model.Team, error) {
	if teamID == "" {
		return model.Team{}, ErrIDRequired
	}
	return s.repo().Team(ctx, teamID)
}

func normalizeTeam(in model.TeamInput) (model.TeamInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, ErrTeamNameRequired
	}
	return in, nil
}

func (s *teamService) Create(ctx context.Context, in model.TeamInput) (model.Team, error) {
	in, err := normalizeTeam(in)
	if err != nil {
		return model.Team{}, err
	}
	return s.repo().CreateTeam(ctx, in)
}

func (s *teamService) Update(ctx context.Context, teamID string, in model.TeamInput) (model.Team, error) {
	if teamID == "" {
		return model.Team{}, ErrIDRequired
	}
	in, err := normalizeTeam(in)
	if err != nil {
		return model.Team{}, err
	}
	return s.repo().UpdateTeam(ctx, teamID, in)
}

func (s *teamService) Delete(ctx context.Context, teamID string) (model.Result, error) {
	if teamID == "" {
		return model.Result{}, ErrIDRequired
	}
	return s.repo().DeleteTeam(ctx, teamID)
}

func (s *teamService) Members(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	if teamID == "" {
		return nil, ErrIDRequired
	}
	return s.repo().Members(ctx, teamID)
}

// ValidEmail reports whether s is a bare RFC 5322 address.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}

func (s *teamService) Invite(ctx context.Context, teamID, email string, role model.TeamRole) (*model.TeamMember, error) {
	if teamID == "" {
		return nil, ErrIDRequired
	}
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}
	if role == "" {
		role = model.RoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return s.repo().InviteMember(ctx, teamID, email, role)
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, memberID string) (model.Result, error) {
	if teamID == "" || memberID == "" {
		return model.Result{}, ErrIDRequired
	}
	return s.repo().RemoveMember(ctx, teamID, memberID)
}

func (s *teamService) ChangeRole(ctx context.Context, teamID, memberID string, role model.TeamRole) (model.Result, error) {
	if teamID == "" || memberID == "" {
		return model.Result{}, ErrIDRequired
	}
	if !role.Valid() {
		return model.Result{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	return s.repo().UpdateMemberRole(ctx, teamID, memberID, role)
}

func (s *teamService) Leave(ctx context.Context, teamID string) (model.Result, error) {
	if teamID == "" {
		return model.Result{}, ErrIDRequired
	}
	return s.repo().LeaveTeam(ctx, teamID)
}
