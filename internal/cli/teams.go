package cli

import (
	"context"
	"strconv"

	"github.com/spf13/pflag"

	"docportal/internal/model"
)

func teamsCommand(d Deps) *Command {
	return &Command{
		Name:    "teams",
		Summary: "Manage teams and their members",
		Subcommands: []*Command{
			teamsListCommand(d),
			teamsShowCommand(d),
			teamsCreateCommand(d),
			teamsUpdateCommand(d),
			teamsDeleteCommand(d),
			teamsMembersCommand(d),
			teamsInviteCommand(d),
			teamsRemoveCommand(d),
			teamsRoleCommand(d),
			teamsLeaveCommand(d),
		},
	}
}

func teamsListCommand(d Deps) *Command {
	var active, asJSON bool
	return &Command{
		Name:    "list",
		Summary: "List teams",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.BoolVar(&active, "active", true, "only active teams; --active=false lists all")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			teams, err := d.Teams.List(ctx, active)
			if err != nil {
				return err
			}
			if teams == nil {
				teams = []model.Team{}
			}
			rows := make([][]string, 0, len(teams))
			for _, t := range teams {
				rows = append(rows, []string{t.ID, t.Name, strconv.Itoa(t.MemberCount), strconv.Itoa(t.DocumentCount), t.Description})
			}
			return printer{w: d.Out, json: asJSON}.table(teams, []string{"ID", "NAME", "MEMBERS", "DOCUMENTS", "DESCRIPTION"}, rows)
		},
	}
}

func teamsShowCommand(d Deps) *Command {
	var asJSON bool
	return &Command{
		Name:    "show",
		Summary: "Show one team",
		Usage:   "<team-id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("show", pflag.ContinueOnError)
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<team-id>"); err != nil {
				return err
			}
			t, err := d.Teams.Get(ctx, args[0])
			if err != nil {
				return err
			}
			p := printer{w: d.Out, json: asJSON}
			if asJSON {
				return p.emit(t)
			}
			return p.line("%s (%s): %d members, %d documents. %s", t.Name, t.ID, t.MemberCount, t.DocumentCount, t.Description)
		},
	}
}

func teamsCreateCommand(d Deps) *Command {
	var description string
	return &Command{
		Name:    "create",
		Summary: "Create a team",
		Usage:   "<name> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
			fs.StringVarP(&description, "description", "d", "", "team description")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<name>"); err != nil {
				return err
			}
			t, err := d.Teams.Create(ctx, model.TeamInput{Name: args[0], Description: description})
			if err != nil {
				return err
			}
			return printer{w: d.Out}.line("Created team %s (%s).", t.Name, t.ID)
		},
	}
}

func teamsUpdateCommand(d Deps) *Command {
	var name, description string
	return &Command{
		Name:    "update",
		Summary: "Rename a team or change its description",
		Usage:   "<team-id> --name NAME [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("update", pflag.ContinueOnError)
			fs.StringVarP(&name, "name", "n", "", "new team name")
			fs.StringVarP(&description, "description", "d", "", "new description")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<team-id>"); err != nil {
				return err
			}
			t, err := d.Teams.Update(ctx, args[0], model.TeamInput{Name: name, Description: description})
			if err != nil {
				return err
			}
			return printer{w: d.Out}.line("Updated team %s.", t.Name)
		},
	}
}

func teamsDeleteCommand(d Deps) *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete a team",
		Usage:   "<team-id>",
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<team-id>"); err != nil {
				return err
			}
			return resultLine(d, "Deleted team "+args[0]+".")(d.Teams.Delete(ctx, args[0]))
		},
	}
}

func teamsMembersCommand(d Deps) *Command {
	var asJSON bool
	return &Command{
		Name:    "members",
		Summary: "List the members of a team",
		Usage:   "<team-id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("members", pflag.ContinueOnError)
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<team-id>"); err != nil {
				return err
			}
			members, err := d.Teams.Members(ctx, args[0])
			if err != nil {
				return err
			}
			if members == nil {
				members = []model.TeamMember{}
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{m.ID, m.Name, m.Email, string(m.Role)})
			}
			return printer{w: d.Out, json: asJSON}.table(members, []string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
		},
	}
}

func teamsInviteCommand(d Deps) *Command {
	var role string
	return &Command{
		Name:    "invite",
		Summary: "Add a user to a team by email",
		Usage:   "<team-id> <email> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("invite", pflag.ContinueOnError)
			fs.StringVarP(&role, "role", "r", string(model.RoleMember), "owner, admin or member")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 2, "<team-id> <email>"); err != nil {
				return err
			}
			m, err := d.Teams.Invite(ctx, args[0], args[1], model.ParseRole(role))
			if err != nil {
				return err
			}
			if m == nil {
				return printer{w: d.Out}.line("Invited %s.", args[1])
			}
			return printer{w: d.Out}.line("Added %s as %s (member %s).", m.Email, m.Role, m.ID)
		},
	}
}

func teamsRemoveCommand(d Deps) *Command {
	return &Command{
		Name:    "remove",
		Summary: "Remove a member from a team",
		Usage:   "<team-id> <member-id>",
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 2, "<team-id> <member-id>"); err != nil {
				return err
			}
			return resultLine(d, "Removed member "+args[1]+".")(d.Teams.RemoveMember(ctx, args[0], args[1]))
		},
	}
}

func teamsRoleCommand(d Deps) *Command {
	return &Command{
		Name:    "role",
		Summary: "Change a member's role",
		Usage:   "<team-id> <member-id> <role>",
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 3, "<team-id> <member-id> <role>"); err != nil {
				return err
			}
			return resultLine(d, "Role updated.")(d.Teams.ChangeRole(ctx, args[0], args[1], model.ParseRole(args[2])))
		},
	}
}

func teamsLeaveCommand(d Deps) *Command {
	return &Command{
		Name:    "leave",
		Summary: "Leave a team",
		Usage:   "<team-id>",
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<team-id>"); err != nil {
				return err
			}
			return resultLine(d, "Left team "+args[0]+".")(d.Teams.Leave(ctx, args[0]))
		},
	}
}

// resultLine prints ok, or the backend's message when it sent one.
func resultLine(d Deps, ok string) func(model.Result, error) error {
	return func(res model.Result, err error) error {
		if err != nil {
			return err
		}
		if res.Message != "" {
			return printer{w: d.Out}.line("%s", res.Message)
		}
		return printer{w: d.Out}.line("%s", ok)
	}
}
