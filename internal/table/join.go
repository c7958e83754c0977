package table

import (
	"fmt"
	"strconv"
	"strings"

	"taxi-report/internal/model"
	"taxi-report/pkg/utils"
)

// JoinOptions configures Join.
type JoinOptions struct {
	On          []string
	LeftSuffix  string // appended to left value columns whose name also exists on the right
	RightSuffix string // appended to right value columns whose name also exists on the left
}

// Join combines left and right on the key columns as a full outer join.
//
// The result has the key columns first, then the remaining left columns, then
// the remaining right columns. Every key present on either side appears exactly
// once: left keys in left order, then keys found only on the right in right
// order. Cells from a side that lacks the key are nil. A key repeated within
// one side is an error.
func Join(name string, left, right *Table, opts JoinOptions) (*Table, error) {
	if len(opts.On) == 0 {
		return nil, fmt.Errorf("%w: %s: no join columns", model.ErrJoinKey, name)
	}
	lk, err := keyIndexes(left, opts.On)
	if err != nil {
		return nil, err
	}
	rk, err := keyIndexes(right, opts.On)
	if err != nil {
		return nil, err
	}
	lv := valueIndexes(left, lk)
	rv := valueIndexes(right, rk)

	columns := append([]string{}, opts.On...)
	leftNames := map[string]bool{}
	rightNames := map[string]bool{}
	for _, i := range lv {
		leftNames[left.Columns[i]] = true
	}
	for _, i := range rv {
		rightNames[right.Columns[i]] = true
	}
	for _, i := range lv {
		c, err := resolve(name, left.Columns[i], rightNames, opts.LeftSuffix)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	for _, i := range rv {
		c, err := resolve(name, right.Columns[i], leftNames, opts.RightSuffix)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	seen := map[string]bool{}
	for _, c := range columns {
		if seen[c] {
			return nil, fmt.Errorf("%w: %s: duplicate column %q after join", model.ErrJoinKey, name, c)
		}
		seen[c] = true
	}

	rightRows, rightOrder, err := indexRows(right, rk)
	if err != nil {
		return nil, err
	}
	leftRows, _, err := indexRows(left, lk)
	if err != nil {
		return nil, err
	}

	out := New(name, columns...)
	for _, row := range left.Rows {
		k := keyOf(row, lk)
		r := rightRows[k]
		cells := make([]interface{}, 0, len(columns))
		for _, i := range lk {
			cells = append(cells, row[i])
		}
		for _, i := range lv {
			cells = append(cells, row[i])
		}
		for _, i := range rv {
			if r == nil {
				cells = append(cells, nil)
			} else {
				cells = append(cells, r[i])
			}
		}
		out.Rows = append(out.Rows, cells)
	}
	for _, k := range rightOrder {
		if leftRows[k] != nil {
			continue
		}
		r := rightRows[k]
		cells := make([]interface{}, 0, len(columns))
		for _, i := range rk {
			cells = append(cells, r[i])
		}
		for range lv {
			cells = append(cells, nil)
		}
		for _, i := range rv {
			cells = append(cells, r[i])
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}

func keyIndexes(t *Table, on []string) ([]int, error) {
	idx := make([]int, len(on))
	for i, c := range on {
		idx[i] = t.Index(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: table %s has no column %q (columns: %s)",
				model.ErrJoinKey, t.Name, c, strings.Join(t.Columns, ", "))
		}
	}
	return idx, nil
}

func valueIndexes(t *Table, keys []int) []int {
	isKey := map[int]bool{}
	for _, k := range keys {
		isKey[k] = true
	}
	var out []int
	for i := range t.Columns {
		if !isKey[i] {
			out = append(out, i)
		}
	}
	return out
}

func resolve(name, column string, other map[string]bool, suffix string) (string, error) {
	if !other[column] {
		return column, nil
	}
	if suffix == "" {
		return "", fmt.Errorf("%w: %s: column %q exists on both sides and no suffix is set",
			model.ErrJoinKey, name, column)
	}
	return column + suffix, nil
}

func indexRows(t *Table, keys []int) (map[string][]interface{}, []string, error) {
	rows := make(map[string][]interface{}, len(t.Rows))
	order := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		k := keyOf(row, keys)
		if _, dup := rows[k]; dup {
			return nil, nil, fmt.Errorf("%w: table %s repeats key (%s)", model.ErrJoinKey, t.Name, k)
		}
		rows[k] = row
		order = append(order, k)
	}
	return rows, order, nil
}

// keyOf builds a comparable key; 10 and 10.0 are the same key.
func keyOf(row []interface{}, keys []int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		v := row[k]
		if f, ok := utils.Numeric(v); ok {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
			continue
		}
		if v == nil {
			parts[i] = "NULL"
			continue
		}
		parts[i] = strconv.Quote(utils.FormatValue(v))
	}
	return strings.Join(parts, ", ")
}
