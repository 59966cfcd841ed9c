package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"docportal/internal/httpclient"
	"docportal/internal/model"
	"docportal/internal/repository"
)

// Teams implements repository.TeamRepository. Team CRUD lives under the
// teams prefix and membership listing/invites under the members prefix.
type Teams struct {
	client        Doer
	teamsPrefix   string
	membersPrefix string
}

var _ repository.TeamRepository = (*Teams)(nil)

func NewTeams(client Doer, teamsPrefix, membersPrefix string) *Teams {
	return &Teams{
		client:        client,
		teamsPrefix:   strings.TrimRight(teamsPrefix, "/"),
		membersPrefix: strings.TrimRight(membersPrefix, "/"),
	}
}

func join(prefix string, parts ...string) string {
	for _, s := range parts {
		prefix += "/" + segment(s)
	}
	return prefix
}

func (t *Teams) Teams(ctx context.Context, activeOnly bool) ([]model.Team, error) {
	var q url.Values
	if activeOnly {
		q = url.Values{"activeOnly": {"true"}}
	}
	res, err := t.client.Do(ctx, t.teamsPrefix, httpclient.Options{Query: q})
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	items := listOf(res.Result(), "data.teams", "teams", "data.data.teams", "data.data", "data", "@this")
	out := make([]model.Team, 0, len(items))
	for _, it := range items {
		out = append(out, mapTeam(it))
	}
	return out, nil
}

func (t *Teams) Team(ctx context.Context, teamID string) (model.Team, error) {
	if teamID == "" {
		return model.Team{}, fmt.Errorf("%w: team id is required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.teamsPrefix, teamID), httpclient.Options{})
	if err != nil {
		return model.Team{}, fmt.Errorf("get team: %w", err)
	}
	data, ok := objectOf(res.Result(), "data.team", "data.data", "data", "team", "@this")
	if !ok {
		return model.Team{}, repository.MalformedError("team not found in response")
	}
	team := mapTeam(data)
	if !present(firstOf(data, "teamId", "id")) {
		team.ID = teamID
	}
	return team, nil
}

func (t *Teams) CreateTeam(ctx context.Context, in model.TeamInput) (model.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return model.Team{}, fmt.Errorf("%w: team name is required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, t.teamsPrefix, httpclient.Options{Method: http.MethodPost, Body: in})
	if err != nil {
		return model.Team{}, fmt.Errorf("create team: %w", err)
	}
	r := res.Result()
	if !succeeded(r) {
		return model.Team{}, repository.RejectedError(message(r, "create team failed"))
	}
	return teamFrom(r, "", in), nil
}

func (t *Teams) UpdateTeam(ctx context.Context, teamID string, in model.TeamInput) (model.Team, error) {
	in.Name = strings.TrimSpace(in.Name)
	if teamID == "" || in.Name == "" {
		return model.Team{}, fmt.Errorf("%w: team id and name are required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.teamsPrefix, teamID), httpclient.Options{Method: http.MethodPut, Body: in})
	if err != nil {
		return model.Team{}, fmt.Errorf("update team: %w", err)
	}
	r := res.Result()
	if !succeeded(r) {
		return model.Team{}, repository.RejectedError(message(r, "update team failed"))
	}
	return teamFrom(r, teamID, in), nil
}

// teamFrom maps the team echoed by a create or update, filling gaps from
// the request.
func teamFrom(r gjson.Result, teamID string, in model.TeamInput) model.Team {
	data, _ := objectOf(r, "data.data", "data")
	team := mapTeam(data)
	if teamID != "" && !present(firstOf(data, "teamId", "id")) {
		team.ID = teamID
	}
	if data.Get("name").Type != gjson.String {
		team.Name = in.Name
	}
	if data.Get("description").Type != gjson.String {
		team.Description = in.Description
	}
	return team
}

func (t *Teams) DeleteTeam(ctx context.Context, teamID string) (model.Result, error) {
	if teamID == "" {
		return model.Result{}, fmt.Errorf("%w: team id is required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.teamsPrefix, teamID), httpclient.Options{Method: http.MethodDelete})
	if err != nil {
		return model.Result{}, fmt.Errorf("delete team: %w", err)
	}
	return resultOf(res.Result()), nil
}

func (t *Teams) Members(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.membersPrefix, teamID, "memberList"), httpclient.Options{})
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	items := listOf(res.Result(), "data.members", "members", "data.data.members", "data.data", "data", "@this")
	out := make([]model.TeamMember, 0, len(items))
	for _, it := range items {
		out = append(out, mapMember(it))
	}
	return out, nil
}

type inviteRequest struct {
	UserEmail string `json:"userEmail"`
	Role      string `json:"role"`
}

func (t *Teams) InviteMember(ctx context.Context, teamID, email string, role model.TeamRole) (*model.TeamMember, error) {
	email = strings.TrimSpace(email)
	if teamID == "" || email == "" || !role.Valid() {
		return nil, fmt.Errorf("%w: team id, email and a valid role are required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.membersPrefix, teamID, "addMembers"), httpclient.Options{
		Method: http.MethodPost,
		Body:   inviteRequest{UserEmail: email, Role: strings.ToUpper(string(role))},
	})
	if err != nil {
		return nil, fmt.Errorf("invite member: %w", err)
	}
	r := res.Result()
	if !succeeded(r) {
		return nil, repository.RejectedError(message(r, "invite member failed"))
	}
	data, ok := objectOf(r, "data.data", "data")
	if !ok {
		return nil, nil
	}
	m := mapMember(data)
	return &m, nil
}

func (t *Teams) RemoveMember(ctx context.Context, teamID, memberID string) (model.Result, error) {
	if teamID == "" || memberID == "" {
		return model.Result{}, fmt.Errorf("%w: team id and member id are required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.membersPrefix, teamID, "removeMember", memberID), httpclient.Options{Method: http.MethodDelete})
	if err != nil {
		return model.Result{}, fmt.Errorf("remove member: %w", err)
	}
	return resultOf(res.Result()), nil
}

func (t *Teams) UpdateMemberRole(ctx context.Context, teamID, memberID string, role model.TeamRole) (model.Result, error) {
	if teamID == "" || memberID == "" || !role.Valid() {
		return model.Result{}, fmt.Errorf("%w: team id, member id and a valid role are required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.teamsPrefix, teamID, "members", memberID), httpclient.Options{
		Method: http.MethodPut,
		Body:   map[string]string{"role": strings.ToUpper(string(role))},
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("update member role: %w", err)
	}
	return resultOf(res.Result()), nil
}

func (t *Teams) LeaveTeam(ctx context.Context, teamID string) (model.Result, error) {
	if teamID == "" {
		return model.Result{}, fmt.Errorf("%w: team id is required", repository.ErrInvalidInput)
	}
	res, err := t.client.Do(ctx, join(t.teamsPrefix, teamID, "members", "leave"), httpclient.Options{Method: http.MethodPost})
	if err != nil {
		return model.Result{}, fmt.Errorf("leave team: %w", err)
	}
	return resultOf(res.Result()), nil
}

func resultOf(r gjson.Result) model.Result {
	return model.Result{Success: succeeded(r), Message: message(r, "")}
}
