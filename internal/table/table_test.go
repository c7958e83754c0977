package table

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi-report/internal/model"
)

func cashRides() *Table {
	t := New("question3a", "cash_only", "month", "year")
	t.Rows = [][]interface{}{
		{int64(1), int64(10), int64(2012)},
		{int64(1), int64(12), int64(2012)},
	}
	return t
}

func nonCashRides() *Table {
	t := New("question3b", "not_cash", "month", "year")
	t.Rows = [][]interface{}{
		{int64(1), int64(10), int64(2012)},
		{int64(1), int64(11), int64(2012)},
	}
	return t
}

func TestAppend(t *testing.T) {
	tbl := New("vendors", "vendor", "total")
	require.NoError(t, tbl.Append("Alpha Cabs", 100.0))
	assert.Error(t, tbl.Append("Beta Taxi"))
	assert.Equal(t, 1, tbl.Len())
}

func TestColumn(t *testing.T) {
	col, err := cashRides().Column("month")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(10), int64(12)}, col)

	_, err = cashRides().Column("Month")
	assert.Error(t, err)
}

func TestExpect(t *testing.T) {
	tbl := cashRides()
	assert.NoError(t, tbl.Expect([]string{"cash_only", "month", "year"}))

	tests := [][]string{
		{"cash_only", "Month", "year"},
		{"month", "year", "cash_only"},
		{"cash_only", "month"},
		{"count", "month", "year"},
	}
	for _, want := range tests {
		err := tbl.Expect(want)
		assert.ErrorIs(t, err, model.ErrSchemaMismatch, "%v", want)
	}
}

func TestWithColumns(t *testing.T) {
	tbl := cashRides()
	got, err := tbl.WithColumns([]string{"label"}, func(row []interface{}) ([]interface{}, error) {
		return []interface{}{fmt.Sprintf("%v/%v", row[1], row[2])}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cash_only", "month", "year", "label"}, got.Columns)
	assert.Equal(t, "12/2012", got.Rows[1][3])
	assert.Len(t, tbl.Columns, 3, "source table is not modified")

	_, err = tbl.WithColumns([]string{"a", "b"}, func([]interface{}) ([]interface{}, error) {
		return []interface{}{1}, nil
	})
	assert.Error(t, err)
}

func TestSortBy(t *testing.T) {
	tbl := New("t", "month", "year", "n")
	tbl.Rows = [][]interface{}{
		{int64(1), int64(2013), int64(1)},
		{int64(12), int64(2012), int64(2)},
		{nil, int64(2012), int64(3)},
		{11.0, int64(2012), int64(4)},
	}
	require.NoError(t, tbl.SortBy("year", "month"))

	n, err := tbl.Column("n")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(3), int64(4), int64(2), int64(1)}, n)

	assert.ErrorIs(t, tbl.SortBy("day"), model.ErrJoinKey)
}

func TestSortByStrings(t *testing.T) {
	tbl := New("t", "vendor")
	tbl.Rows = [][]interface{}{{"b"}, {int64(1)}, {"a"}}
	require.NoError(t, tbl.SortBy("vendor"))
	assert.Equal(t, [][]interface{}{{int64(1)}, {"a"}, {"b"}}, tbl.Rows)
}

// renderedLines splits Render output into the whitespace-separated fields of
// each non-blank line.
func renderedLines(t *testing.T, tbl *Table) [][]string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tbl.Render(&buf))
	var lines [][]string
	for _, line := range strings.Split(buf.String(), "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, fields)
		}
	}
	return lines
}

func TestRender(t *testing.T) {
	tbl, err := Join("question3", cashRides(), nonCashRides(), JoinOptions{On: []string{"month", "year"}})
	require.NoError(t, err)

	lines := renderedLines(t, tbl)
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"month", "year", "cash_only", "not_cash"}, lines[0])
	assert.Equal(t, []string{"0", "10", "2012", "1", "1"}, lines[1])
	assert.Equal(t, []string{"2", "11", "2012", "NULL", "1"}, lines[3])
}

func TestRenderSingleNull(t *testing.T) {
	tbl := New("question1", "avg_trip_distance")
	require.NoError(t, tbl.Append(nil))

	assert.Equal(t, [][]string{{"avg_trip_distance"}, {"0", "NULL"}}, renderedLines(t, tbl))
}

func TestRenderEmpty(t *testing.T) {
	lines := renderedLines(t, New("question4a", "tips", "date"))
	require.Len(t, lines, 2)
	assert.Equal(t, []string{"tips", "date"}, lines[0])
	assert.Equal(t, []string{"(question4a:", "0", "rows)"}, lines[1])
}
