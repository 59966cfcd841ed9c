package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// printer renders results either as indented JSON or as aligned columns.
type printer struct {
	w    io.Writer
	json bool
}

func (p printer) emit(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows under header unless JSON output was requested, in
// which case v is encoded instead.
func (p printer) table(v any, header []string, rows [][]string) error {
	if p.json {
		return p.emit(v)
	}
	tw := tabwriter.NewWriter(p.w, 2, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func (p printer) line(format string, a ...any) error {
	_, err := fmt.Fprintf(p.w, format+"\n", a...)
	return err
}
