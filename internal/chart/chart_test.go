package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxi-report/internal/model"
	"taxi-report/internal/table"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func paymentsTable() *table.Table {
	t := table.New("question3", "month", "year", "cash_only", "not_cash")
	t.Rows = [][]interface{}{
		{int64(10), int64(2012), int64(1), int64(1)},
		{int64(11), int64(2012), nil, int64(1)},
		{int64(12), int64(2012), int64(1), nil},
	}
	return t
}

var barSpec = model.ChartSpec{
	Kind:   model.ChartBar,
	Title:  "Number of rides paid with and without cash",
	XLabel: "(Month, Year)",
	YLabel: "Count",
	Index:  []string{"month", "year"},
	Series: []string{"cash_only", "not_cash"},
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func TestRenderBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "question3.png")
	require.NoError(t, Render(paymentsTable(), barSpec, path))
	assertPNG(t, path)
}

func TestRenderLine(t *testing.T) {
	tips := table.New("question4a", "tips", "date")
	for day := int64(275); day < 366; day++ {
		require.NoError(t, tips.Append(day%7, day))
	}
	spec := model.ChartSpec{
		Kind:   model.ChartLine,
		Suffix: "line",
		Title:  "Number of rides with tips",
		XLabel: "# of day of the year",
		YLabel: "Count",
		Index:  []string{"date"},
		Series: []string{"tips"},
	}

	path := filepath.Join(t.TempDir(), "question4a_line.png")
	require.NoError(t, Render(tips, spec, path))
	assertPNG(t, path)
}

func TestRenderEmptyTable(t *testing.T) {
	empty := table.New("question4b", "tips", "day", "month")
	for _, kind := range []model.ChartKind{model.ChartBar, model.ChartLine} {
		spec := model.ChartSpec{Kind: kind, Index: []string{"day", "month"}, Series: []string{"tips"}}
		path := filepath.Join(t.TempDir(), "empty.png")
		require.NoError(t, Render(empty, spec, path), kind)
		assertPNG(t, path)
	}
}

func TestRenderOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "question3.png")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, Render(paymentsTable(), barSpec, path))
	assertPNG(t, path)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()

	vendors := table.New("question2", "vendor", "total")
	require.NoError(t, vendors.Append("Alpha Cabs", 100.0))

	tests := map[string]model.ChartSpec{
		"text series":    {Kind: model.ChartBar, Index: []string{"total"}, Series: []string{"vendor"}},
		"missing series": {Kind: model.ChartBar, Series: []string{"count"}},
		"missing index":  {Kind: model.ChartLine, Index: []string{"Vendor"}, Series: []string{"total"}},
		"no series":      {Kind: model.ChartBar},
		"unknown kind":   {Kind: "pie", Series: []string{"total"}},
	}
	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			err := Render(vendors, spec, filepath.Join(dir, "x.png"))
			assert.ErrorIs(t, err, model.ErrRender)
		})
	}

	err := Render(vendors, model.ChartSpec{Kind: model.ChartBar, Series: []string{"total"}},
		filepath.Join(dir, "missing", "x.png"))
	assert.ErrorIs(t, err, model.ErrRender)
}

func TestLabels(t *testing.T) {
	got, err := Labels(paymentsTable(), []string{"month", "year"})
	require.NoError(t, err)
	assert.Equal(t, []string{"(10, 2012)", "(11, 2012)", "(12, 2012)"}, got)

	got, err = Labels(paymentsTable(), []string{"month"})
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11", "12"}, got)

	got, err = Labels(paymentsTable(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, got)

	reloaded := table.New("t", "day")
	reloaded.Rows = [][]interface{}{{7.0}, {nil}, {"x"}}
	got, err = Labels(reloaded, []string{"day"})
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "NULL", "x"}, got)
}
