package cli

import (
	"context"
	"strconv"

	"github.com/spf13/pflag"

	"docportal/internal/model"
)

func logsCommand(d Deps) *Command {
	return &Command{
		Name:        "logs",
		Summary:     "Inspect the activity log",
		Subcommands: []*Command{logsListCommand(d), logsCountCommand(d)},
	}
}

func logsListCommand(d Deps) *Command {
	var documentID string
	var asJSON bool
	return &Command{
		Name:    "list",
		Summary: "List activity log entries",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.StringVar(&documentID, "document", "", "only entries about this document")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			var (
				entries []model.LogEntry
				err     error
			)
			if documentID != "" {
				entries, err = d.Logs().ByDocument(ctx, documentID)
			} else {
				entries, err = d.Logs().All(ctx)
			}
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []model.LogEntry{}
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Time, e.ActorName, e.OperationType, e.TargetName, e.OperationStatus})
			}
			return printer{w: d.Out, json: asJSON}.table(entries, []string{"TIME", "ACTOR", "OPERATION", "TARGET", "STATUS"}, rows)
		},
	}
}

func logsCountCommand(d Deps) *Command {
	var period string
	var asJSON bool
	return &Command{
		Name:    "count",
		Summary: "Aggregate activity per period",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("count", pflag.ContinueOnError)
			fs.StringVarP(&period, "period", "p", "", "week or month")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			counts, err := d.Logs().Count(ctx, period)
			if err != nil {
				return err
			}
			if counts == nil {
				counts = []model.LogCount{}
			}
			rows := make([][]string, 0, len(counts))
			for _, c := range counts {
				rows = append(rows, []string{c.Label, strconv.FormatInt(c.Count, 10)})
			}
			return printer{w: d.Out, json: asJSON}.table(counts, []string{"PERIOD", "COUNT"}, rows)
		},
	}
}
