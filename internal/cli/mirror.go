package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"docportal/internal/service"
)

func mirrorCommand(d Deps) *Command {
	var (
		ids         []string
		expiry      time.Duration
		concurrency int
		asJSON      bool
	)
	return &Command{
		Name:    "mirror",
		Summary: "Copy documents into S3-compatible storage and print presigned links",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("mirror", pflag.ContinueOnError)
			fs.StringSliceVar(&ids, "id", nil, "document ids to mirror (default all)")
			fs.DurationVar(&expiry, "link-expiry", 24*time.Hour, "lifetime of the presigned links")
			fs.IntVarP(&concurrency, "concurrency", "c", 4, "parallel transfers")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			svc, err := d.Mirror(ctx)
			if err != nil {
				return err
			}
			results, err := svc.Mirror(ctx, service.MirrorOptions{
				DocumentIDs: ids,
				LinkExpiry:  expiry,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}

			failed := 0
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				state := "copied"
				switch {
				case r.Error != "":
					state = "failed: " + r.Error
					failed++
				case r.Skipped:
					state = "unchanged"
				}
				rows = append(rows, []string{r.DocumentID, r.Name, strconv.FormatInt(r.Size, 10), state, r.URL})
			}
			if err := (printer{w: d.Out, json: asJSON}).table(results, []string{"ID", "NAME", "BYTES", "STATE", "LINK"}, rows); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed to mirror", failed, len(results))
			}
			return nil
		},
	}
}
