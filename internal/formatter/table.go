// Package formatter renders gate verdicts, trust scores, and policy
// tables for the CLI. Two formats are supported: aligned tables for
// humans and JSON for scripting.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table formats columnar output using tabwriter.
type Table struct {
	w             *tabwriter.Writer
	headers       []string
	headerWritten bool
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{
		w:       tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// AddRow appends a data row. Extra values beyond the header count are
// ignored; missing values are filled with empty strings.
func (t *Table) AddRow(values ...string) {
	if !t.headerWritten {
		t.headerWritten = true
		t.writeHeaderAndSeparator()
	}

	cells := make([]string, len(t.headers))
	for i := range cells {
		if i < len(values) {
			cells[i] = values[i]
		}
	}

	//nolint:errcheck // tabwriter output to stdout
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

// Render flushes the underlying tabwriter. Must be called after all
// AddRow calls.
func (t *Table) Render() error {
	return t.w.Flush()
}

func (t *Table) writeHeaderAndSeparator() {
	//nolint:errcheck // tabwriter output to stdout
	fmt.Fprintln(t.w, strings.Join(t.headers, "\t"))

	dashes := make([]string, len(t.headers))
	for i, h := range t.headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	//nolint:errcheck // tabwriter output to stdout
	fmt.Fprintln(t.w, strings.Join(dashes, "\t"))
}
