package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docportal/internal/model"
	"docportal/internal/service"
)

type TeamListInput struct {
	ActiveOnly bool `json:"active_only,omitempty" jsonschema:"only return active teams"`
}

type TeamList struct {
	Teams []model.Team `json:"teams" jsonschema:"teams visible to the caller"`
}

type TeamInput struct {
	Name        string `json:"name" jsonschema:"team name"`
	Description string `json:"description,omitempty" jsonschema:"team description"`
}

type TeamUpdateInput struct {
	TeamID      string `json:"team_id" jsonschema:"team identifier"`
	Name        string `json:"name" jsonschema:"new team name"`
	Description string `json:"description,omitempty" jsonschema:"new team description"`
}

type TeamIDInput struct {
	TeamID string `json:"team_id" jsonschema:"team identifier"`
}

type MemberList struct {
	Members []model.TeamMember `json:"members" jsonschema:"team members"`
}

type AddMemberInput struct {
	TeamID string `json:"team_id" jsonschema:"team identifier"`
	Email  string `json:"user_email" jsonschema:"email address of the user to add"`
	Role   string `json:"role,omitempty" jsonschema:"owner, admin or member (default member)"`
}

type AddMemberResult struct {
	Added  bool              `json:"added" jsonschema:"whether the backend accepted the invitation"`
	Member *model.TeamMember `json:"member,omitempty" jsonschema:"the member when the backend returned one"`
}

type MemberInput struct {
	TeamID   string `json:"team_id" jsonschema:"team identifier"`
	MemberID string `json:"member_id" jsonschema:"member identifier"`
}

type MemberRoleInput struct {
	TeamID   string `json:"team_id" jsonschema:"team identifier"`
	MemberID string `json:"member_id" jsonschema:"member identifier"`
	Role     string `json:"role" jsonschema:"owner, admin or member"`
}

func registerTeamTools(server *mcp.Server, teams service.TeamService) {
	mcp.AddTool(server, &mcp.Tool{Name: "get-teams", Description: "Fetch a list of teams."}, getTeams(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "get-team-by-id", Description: "Fetch a team by its ID."}, getTeam(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "create-team", Description: "Create a new team."}, createTeam(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "update-team-by-id", Description: "Update a team's information by its ID."}, updateTeam(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "delete-team-by-id", Description: "Delete a team by its ID."}, deleteTeam(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "get-team-members", Description: "Fetch members of a team."}, getMembers(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "add-team-member", Description: "Add a member to a team."}, addMember(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "update-team-member-role", Description: "Update a team member's role."}, updateMemberRole(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "remove-team-member", Description: "Remove a member from a team."}, removeMember(teams))
	mcp.AddTool(server, &mcp.Tool{Name: "leave-team", Description: "Leave a team."}, leaveTeam(teams))
}

func getTeams(teams service.TeamService) mcp.ToolHandlerFor[TeamListInput, TeamList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamListInput) (*mcp.CallToolResult, TeamList, error) {
		items, err := teams.List(ctx, in.ActiveOnly)
		if err != nil {
			return nil, TeamList{}, err
		}
		if items == nil {
			items = []model.Team{}
		}
		return nil, TeamList{Teams: items}, nil
	}
}

func getTeam(teams service.TeamService) mcp.ToolHandlerFor[TeamIDInput, model.Team] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamIDInput) (*mcp.CallToolResult, model.Team, error) {
		t, err := teams.Get(ctx, in.TeamID)
		if err != nil {
			return nil, model.Team{}, err
		}
		return nil, t, nil
	}
}

func createTeam(teams service.TeamService) mcp.ToolHandlerFor[TeamInput, model.Team] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamInput) (*mcp.CallToolResult, model.Team, error) {
		t, err := teams.Create(ctx, model.TeamInput{Name: in.Name, Description: in.Description})
		if err != nil {
			return nil, model.Team{}, err
		}
		return nil, t, nil
	}
}

func updateTeam(teams service.TeamService) mcp.ToolHandlerFor[TeamUpdateInput, model.Team] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamUpdateInput) (*mcp.CallToolResult, model.Team, error) {
		t, err := teams.Update(ctx, in.TeamID, model.TeamInput{Name: in.Name, Description: in.Description})
		if err != nil {
			return nil, model.Team{}, err
		}
		return nil, t, nil
	}
}

func deleteTeam(teams service.TeamService) mcp.ToolHandlerFor[TeamIDInput, model.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamIDInput) (*mcp.CallToolResult, model.Result, error) {
		res, err := teams.Delete(ctx, in.TeamID)
		if err != nil {
			return nil, model.Result{}, err
		}
		return nil, res, nil
	}
}

func getMembers(teams service.TeamService) mcp.ToolHandlerFor[TeamIDInput, MemberList] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamIDInput) (*mcp.CallToolResult, MemberList, error) {
		items, err := teams.Members(ctx, in.TeamID)
		if err != nil {
			return nil, MemberList{}, err
		}
		if items == nil {
			items = []model.TeamMember{}
		}
		return nil, MemberList{Members: items}, nil
	}
}

func addMember(teams service.TeamService) mcp.ToolHandlerFor[AddMemberInput, AddMemberResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in AddMemberInput) (*mcp.CallToolResult, AddMemberResult, error) {
		m, err := teams.Invite(ctx, in.TeamID, in.Email, model.ParseRole(in.Role))
		if err != nil {
			return nil, AddMemberResult{}, err
		}
		return nil, AddMemberResult{Added: true, Member: m}, nil
	}
}

func updateMemberRole(teams service.TeamService) mcp.ToolHandlerFor[MemberRoleInput, model.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MemberRoleInput) (*mcp.CallToolResult, model.Result, error) {
		res, err := teams.ChangeRole(ctx, in.TeamID, in.MemberID, model.ParseRole(in.Role))
		if err != nil {
			return nil, model.Result{}, err
		}
		return nil, res, nil
	}
}

func removeMember(teams service.TeamService) mcp.ToolHandlerFor[MemberInput, model.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in MemberInput) (*mcp.CallToolResult, model.Result, error) {
		res, err := teams.RemoveMember(ctx, in.TeamID, in.MemberID)
		if err != nil {
			return nil, model.Result{}, err
		}
		return nil, res, nil
	}
}

func leaveTeam(teams service.TeamService) mcp.ToolHandlerFor[TeamIDInput, model.Result] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TeamIDInput) (*mcp.CallToolResult, model.Result, error) {
		res, err := teams.Leave(ctx, in.TeamID)
		if err != nil {
			return nil, model.Result{}, err
		}
		return nil, res, nil
	}
}
