package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// EmptyCell is printed in place of an empty value so columns stay readable.
const EmptyCell = "-"

// Table writes column-aligned rows through text/tabwriter. The header and
// its dash divider are emitted with the first row, so a table without rows
// prints nothing.
type Table struct {
	w       *tabwriter.Writer
	headers []string
	limits  map[int]int
	rows    int
}

// NewTableTo creates a table that writes to out.
func NewTableTo(out io.Writer, headers ...string) *Table {
	return &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
		limits:  map[int]int{},
	}
}

// Truncate caps column col at width runes; longer cells end in "...".
func (t *Table) Truncate(col, width int) *Table {
	t.limits[col] = width
	return t
}

// Row writes one row. Missing trailing cells and empty cells print as EmptyCell.
func (t *Table) Row(values ...string) {
	if t.rows == 0 {
		t.line(t.headers)
		dividers := make([]string, len(t.headers))
		for i, h := range t.headers {
			dividers[i] = strings.Repeat("-", len(h))
		}
		t.line(dividers)
	}
	t.rows++

	cells := make([]string, max(len(values), len(t.headers)))
	for i := range cells {
		v := ""
		if i < len(values) {
			v = strings.ReplaceAll(values[i], "\n", " ")
		}
		if v == "" {
			v = EmptyCell
		}
		if limit, ok := t.limits[i]; ok {
			v = truncate(v, limit)
		}
		cells[i] = v
	}
	t.line(cells)
}

// Rows returns the number of rows written so far.
func (t *Table) Rows() int { return t.rows }

// Flush writes buffered output. A table with no rows prints nothing.
func (t *Table) Flush() {
	if t.rows == 0 {
		return
	}
	t.w.Flush()
}

func (t *Table) line(cells []string) {
	fmt.Fprintln(t.w, strings.Join(cells, "\t"))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
