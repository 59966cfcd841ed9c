package cli

import (
	"context"
	"time"

	"github.com/spf13/pflag"
)

func loginCommand(d Deps) *Command {
	return &Command{
		Name:    "login",
		Summary: "Sign in through the browser and store tokens locally",
		Run: func(ctx context.Context, _ []string) error {
			p := printer{w: d.Out}
			rec, err := d.Login(ctx, func(authURL string) {
				p.line("Open this URL to sign in:\n\n  %s\n", authURL)
			})
			if err != nil {
				return err
			}
			return p.line("Logged in. Access token valid until %s.", rec.AccessExpiry().Format(time.RFC3339))
		},
	}
}

func logoutCommand(d Deps) *Command {
	return &Command{
		Name:    "logout",
		Summary: "Revoke the session and remove stored tokens",
		Run: func(ctx context.Context, _ []string) error {
			p := printer{w: d.Out}
			revoked, err := d.Sessions.Logout(ctx)
			if err != nil {
				return err
			}
			if !revoked {
				return p.line("Local tokens removed; the server did not confirm revocation.")
			}
			return p.line("Logged out.")
		},
	}
}

func refreshCommand(d Deps) *Command {
	return &Command{
		Name:    "refresh",
		Summary: "Renew the access token now",
		Run: func(ctx context.Context, _ []string) error {
			if err := d.Sessions.Refresh(ctx); err != nil {
				return err
			}
			return printer{w: d.Out}.line("Token refreshed.")
		},
	}
}

func whoamiCommand(d Deps) *Command {
	var remote, asJSON bool
	return &Command{
		Name:    "whoami",
		Summary: "Show the signed-in identity",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			fs.BoolVar(&remote, "remote", false, "ask the server instead of decoding the stored token")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			p := printer{w: d.Out, json: asJSON}
			if remote {
				me, err := d.Auth().Me(ctx)
				if err != nil {
					return err
				}
				return p.emit(me)
			}
			prof, err := d.Sessions.Profile(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return p.emit(prof)
			}
			if prof.Email != "" {
				return p.line("%s <%s> (token expires %s)", prof.Name, prof.Email, prof.TokenExpiry.Format(time.RFC3339))
			}
			return p.line("%s (token expires %s)", prof.Name, prof.TokenExpiry.Format(time.RFC3339))
		},
	}
}
