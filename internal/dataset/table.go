package dataset

import "strings"

// Table is an in-memory delimited dataset: a header row plus data rows of
// string cells. Stages of the pipeline treat tables as immutable snapshots
// and return new tables rather than mutating their input.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// New builds a Table and its column lookup. Rows shorter than the header are
// padded so every row has one cell per column.
func New(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows}
	for i, r := range t.Rows {
		if len(r) < len(header) {
			padded := make([]string, len(header))
			copy(padded, r)
			t.Rows[i] = padded
		}
	}
	t.buildIndex()
	return t
}

func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Header))
	for i, name := range t.Header {
		t.index[strings.ToLower(strings.TrimSpace(name))] = i
	}
}

// Index returns the position of a column by name, case-insensitive.
func (t *Table) Index(name string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// Len reports the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Cell returns the value at (row, column name), or "" when the column is
// absent or the row is short.
func (t *Table) Cell(row int, name string) string {
	i, ok := t.Index(name)
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	header := make([]string, len(t.Header))
	copy(header, t.Header)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = make([]string, len(r))
		copy(rows[i], r)
	}
	return New(header, rows)
}

// WithColumn returns a copy of the table with an extra column appended.
// values must have one entry per row.
func (t *Table) WithColumn(name string, values []string) *Table {
	out := t.Clone()
	out.Header = append(out.Header, name)
	for i := range out.Rows {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		out.Rows[i] = append(out.Rows[i], v)
	}
	out.buildIndex()
	return out
}
