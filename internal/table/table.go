// Package table holds query results in memory: named ordered columns and rows
// of cells. A cell is nil (absent), int64, float64, string or time.Time.
package table

import (
	"fmt"
	"sort"
	"strings"

	"taxi-report/internal/model"
	"taxi-report/pkg/utils"
)

// Table is a rectangular result set.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// New returns an empty table with the given columns.
func New(name string, columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Name: name, Columns: cols}
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row ...interface{}) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("table %s: row has %d cells, want %d", t.Name, len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of a column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Column returns a copy of one column's cells.
func (t *Table) Column(name string) ([]interface{}, error) {
	i := t.Index(name)
	if i < 0 {
		return nil, fmt.Errorf("table %s: no column %q", t.Name, name)
	}
	out := make([]interface{}, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Expect checks the table's columns against a schema contract: same names,
// same order, exact case.
func (t *Table) Expect(columns []string) error {
	if len(columns) == len(t.Columns) {
		match := true
		for i := range columns {
			if columns[i] != t.Columns[i] {
				match = false
				break
			}
		}
		if match {
			return nil
		}
	}
	return fmt.Errorf("%w: table %s has columns [%s], want [%s]", model.ErrSchemaMismatch,
		t.Name, strings.Join(t.Columns, ", "), strings.Join(columns, ", "))
}

// WithColumns returns a copy of t with extra columns computed per row.
func (t *Table) WithColumns(names []string, fn func(row []interface{}) ([]interface{}, error)) (*Table, error) {
	out := New(t.Name, append(append([]string{}, t.Columns...), names...)...)
	for _, row := range t.Rows {
		extra, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", t.Name, err)
		}
		if len(extra) != len(names) {
			return nil, fmt.Errorf("table %s: derived %d cells, want %d", t.Name, len(extra), len(names))
		}
		out.Rows = append(out.Rows, append(append([]interface{}{}, row...), extra...))
	}
	return out, nil
}

// SortBy orders rows by the given columns, ascending. Absent cells sort first.
// The sort is stable.
func (t *Table) SortBy(columns ...string) error {
	idx := make([]int, len(columns))
	for i, c := range columns {
		idx[i] = t.Index(c)
		if idx[i] < 0 {
			return fmt.Errorf("%w: table %s: no sort column %q", model.ErrJoinKey, t.Name, c)
		}
	}
	sort.SliceStable(t.Rows, func(a, b int) bool {
		for _, i := range idx {
			if c := compare(t.Rows[a][i], t.Rows[b][i]); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return nil
}

// compare orders nil < numbers < everything else (by formatted text).
func compare(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	fa, okA := utils.Numeric(a)
	fb, okB := utils.Numeric(b)
	switch {
	case okA && okB:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(utils.FormatValue(a), utils.FormatValue(b))
}
