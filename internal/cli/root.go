package cli

import (
	"context"
	"io"

	"docportal/internal/repository"
	"docportal/internal/service"
	"docportal/internal/tokens"
)

// Deps are the collaborators behind the commands. Documents and Logs are
// resolved per command so a swapped registry entry is picked up.
type Deps struct {
	Out       io.Writer
	Sessions  service.SessionService
	Teams     service.TeamService
	Documents func() repository.DocumentRepository
	Logs      func() repository.LogsRepository
	Auth      func() repository.AuthRepository
	// Login runs the interactive authorization flow; announce receives
	// the URL the user must open.
	Login func(ctx context.Context, announce func(authURL string)) (tokens.Record, error)
	// Mirror connects to object storage on demand.
	Mirror func(ctx context.Context) (service.MirrorService, error)
}

// Root builds the docctl command tree.
func Root(d Deps) *Command {
	return &Command{
		Name:    "docctl",
		Summary: "Manage documents, teams and activity logs from the terminal.",
		Subcommands: []*Command{
			loginCommand(d),
			logoutCommand(d),
			refreshCommand(d),
			whoamiCommand(d),
			documentsCommand(d),
			teamsCommand(d),
			logsCommand(d),
			mirrorCommand(d),
		},
	}
}
