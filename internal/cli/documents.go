package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"docportal/internal/model"
	"docportal/internal/repository"
)

func documentsCommand(d Deps) *Command {
	return &Command{
		Name:    "docs",
		Summary: "List, search and manage documents",
		Subcommands: []*Command{
			docsListCommand(d),
			docsSearchCommand(d),
			docsTagsCommand(d),
			docsShareCommand(d),
			docsDownloadCommand(d),
			docsDeleteCommand(d),
			docsCommentsCommand(d),
			docsCommentCommand(d),
			docsSetTagsCommand(d),
			docsUploadCommand(d),
		},
	}
}

func printDocuments(p printer, docs []model.Document) error {
	if docs == nil {
		docs = []model.Document{}
	}
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, []string{doc.ID, doc.Name, doc.Type, doc.Size, doc.UploadDate, strings.Join(doc.Tags, ",")})
	}
	return p.table(docs, []string{"ID", "NAME", "TYPE", "SIZE", "UPLOADED", "TAGS"}, rows)
}

func docsListCommand(d Deps) *Command {
	var status string
	var asJSON bool
	return &Command{
		Name:    "list",
		Summary: "List documents",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			fs.StringVar(&status, "status", "", "filter by status (UPLOADING, ACTIVE, DELETED, PROCESSING)")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			var (
				docs []model.Document
				err  error
			)
			if status != "" {
				docs, err = d.Documents().ListByStatus(ctx, strings.ToUpper(status))
			} else {
				docs, err = d.Documents().List(ctx)
			}
			if err != nil {
				return err
			}
			return printDocuments(printer{w: d.Out, json: asJSON}, docs)
		},
	}
}

func docsSearchCommand(d Deps) *Command {
	var asJSON bool
	return &Command{
		Name:    "search",
		Summary: "Search documents by free text",
		Usage:   "<query...> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			docs, err := d.Documents().AdvancedSearch(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printDocuments(printer{w: d.Out, json: asJSON}, docs)
		},
	}
}

func docsTagsCommand(d Deps) *Command {
	var asJSON bool
	return &Command{
		Name:    "tagged",
		Summary: "List documents carrying any of the given tags",
		Usage:   "<tag...> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("tagged", pflag.ContinueOnError)
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: expected at least one tag", ErrUsage)
			}
			docs, err := d.Documents().SearchByTags(ctx, args)
			if err != nil {
				return err
			}
			return printDocuments(printer{w: d.Out, json: asJSON}, docs)
		},
	}
}

func docsShareCommand(d Deps) *Command {
	var minutes int
	return &Command{
		Name:    "share",
		Summary: "Print a time-limited share link",
		Usage:   "<id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("share", pflag.ContinueOnError)
			fs.IntVarP(&minutes, "minutes", "m", 60, "link lifetime in minutes")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<id>"); err != nil {
				return err
			}
			u, err := d.Documents().ShareURL(ctx, args[0], minutes)
			if err != nil {
				return err
			}
			return printer{w: d.Out}.line("%s", u)
		},
	}
}

func docsDownloadCommand(d Deps) *Command {
	var output string
	return &Command{
		Name:    "download",
		Summary: "Print the download link, or save the file with --output",
		Usage:   "<id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("download", pflag.ContinueOnError)
			fs.StringVarP(&output, "output", "o", "", "write the content to this path; a directory keeps the stored file name")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<id>"); err != nil {
				return err
			}
			p := printer{w: d.Out}
			if output == "" {
				info, err := d.Documents().DownloadInfo(ctx, args[0])
				if err != nil {
					return err
				}
				return p.line("%s", info.URL)
			}

			data, info, err := d.Documents().DownloadContent(ctx, args[0])
			if err != nil {
				return err
			}
			path := output
			if st, err := os.Stat(output); err == nil && st.IsDir() {
				name := info.FileName
				if name == "" {
					name = args[0]
				}
				path = filepath.Join(output, filepath.Base(name))
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			return p.line("Saved %d bytes to %s", len(data), path)
		},
	}
}

func docsDeleteCommand(d Deps) *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete a document",
		Usage:   "<id>",
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<id>"); err != nil {
				return err
			}
			res, err := d.Documents().Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("delete %s: %w: %s", args[0], repository.ErrRejected, res.Message)
			}
			return printer{w: d.Out}.line("Deleted %s.", args[0])
		},
	}
}

func docsCommentsCommand(d Deps) *Command {
	var page, size int
	var asJSON bool
	return &Command{
		Name:    "comments",
		Summary: "List comments on a document",
		Usage:   "<id> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("comments", pflag.ContinueOnError)
			fs.IntVar(&page, "page", 0, "zero-based page")
			fs.IntVar(&size, "size", 0, "page size (server default when 0)")
			fs.BoolVar(&asJSON, "json", false, "output as JSON")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<id>"); err != nil {
				return err
			}
			comments, err := d.Documents().Comments(ctx, args[0], repository.PageQuery{Page: page, Size: size})
			if err != nil {
				return err
			}
			if comments == nil {
				comments = []model.Comment{}
			}
			rows := make([][]string, 0, len(comments))
			for _, c := range comments {
				rows = append(rows, []string{c.Timestamp, c.User, c.Content})
			}
			return printer{w: d.Out, json: asJSON}.table(comments, []string{"TIME", "USER", "COMMENT"}, rows)
		},
	}
}

func docsCommentCommand(d Deps) *Command {
	return &Command{
		Name:    "comment",
		Summary: "Add a comment to a document",
		Usage:   "<id> <text...>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("%w: expected <id> <text...>", ErrUsage)
			}
			c, err := d.Documents().AddComment(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return printer{w: d.Out}.line("Comment %s added.", c.ID)
		},
	}
}

func docsSetTagsCommand(d Deps) *Command {
	return &Command{
		Name:    "set-tags",
		Summary: "Replace the tags of a document",
		Usage:   "<id> [tag...]",
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("%w: expected <id> [tag...]", ErrUsage)
			}
			tags, err := d.Documents().UpdateTags(ctx, args[0], args[1:])
			if err != nil {
				return err
			}
			return printer{w: d.Out}.line("Tags: %s", strings.Join(tags, ", "))
		},
	}
}

func docsUploadCommand(d Deps) *Command {
	var description string
	return &Command{
		Name:    "upload",
		Summary: "Upload a local file",
		Usage:   "<path> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("upload", pflag.ContinueOnError)
			fs.StringVarP(&description, "description", "d", "", "document description")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs(args, 1, "<path>"); err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			doc, err := d.Documents().Upload(ctx, model.UploadInput{
				FileName:    filepath.Base(args[0]),
				Description: description,
				Content:     content,
			})
			if err != nil {
				return err
			}
			return printer{w: d.Out}.line("Uploaded %s as %s (%s).", doc.Name, doc.ID, doc.Size)
		},
	}
}
