// Package chart draws result tables as bar or line charts and saves them as
// PNG files.
package chart

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"taxi-report/internal/model"
	"taxi-report/internal/table"
	"taxi-report/pkg/utils"
)

// Image size of every saved chart.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

// rotateAfter is the label count above which x tick labels are drawn vertically.
const rotateAfter = 12

// Render draws t according to spec and writes a PNG to path, replacing any
// existing file. An empty table yields a chart with empty axes. Failures wrap
// model.ErrRender.
func Render(t *table.Table, spec model.ChartSpec, path string) error {
	p, err := Build(t, spec)
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("%w: save %s: %v", model.ErrRender, path, err)
	}
	return nil
}

// Build assembles the plot without saving it.
func Build(t *table.Table, spec model.ChartSpec) (*plot.Plot, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("%w: %s: no series to draw", model.ErrRender, t.Name)
	}
	labels, err := Labels(t, spec.Index)
	if err != nil {
		return nil, err
	}
	series := make([][]float64, len(spec.Series))
	valid := make([][]bool, len(spec.Series))
	for i, name := range spec.Series {
		series[i], valid[i], err = numbers(t, name)
		if err != nil {
			return nil, err
		}
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true

	switch spec.Kind {
	case model.ChartBar:
		err = addBars(p, spec.Series, series, len(labels))
	case model.ChartLine:
		err = addLines(p, spec.Series, series, valid)
	default:
		err = fmt.Errorf("unknown chart kind %q", spec.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrRender, t.Name, err)
	}

	if len(labels) > 0 {
		p.NominalX(labels...)
		if len(labels) > rotateAfter {
			p.X.Tick.Label.Rotation = math.Pi / 2
			p.X.Tick.Label.XAlign = text.XRight
			p.X.Tick.Label.YAlign = text.YCenter
		}
	} else {
		p.X.Min, p.X.Max = 0, 1
		p.Y.Min, p.Y.Max = 0, 1
	}
	return p, nil
}

func addBars(p *plot.Plot, names []string, series [][]float64, n int) error {
	if n == 0 {
		return nil
	}
	width := vg.Points(math.Max(2, math.Min(24, 480/float64(n*len(series)))))
	for i, values := range series {
		bars, err := plotter.NewBarChart(plotter.Values(values), width)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(len(series)-1)/2) * width
		p.Add(bars)
		p.Legend.Add(names[i], bars)
	}
	return nil
}

// addLines draws one line per series; absent points are skipped.
func addLines(p *plot.Plot, names []string, series [][]float64, valid [][]bool) error {
	for i, values := range series {
		var pts plotter.XYs
		for x, y := range values {
			if valid[i][x] {
				pts = append(pts, plotter.XY{X: float64(x), Y: y})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(names[i], line)
	}
	return nil
}

// Labels builds one x label per row from the index columns: the plain value
// for a single column, "(a, b)" for several, the row number when none.
func Labels(t *table.Table, index []string) ([]string, error) {
	cols := make([][]interface{}, len(index))
	for i, name := range index {
		c, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrRender, err)
		}
		cols[i] = c
	}
	labels := make([]string, t.Len())
	for r := range labels {
		if len(cols) == 0 {
			labels[r] = fmt.Sprint(r)
			continue
		}
		parts := make([]string, len(cols))
		for i, c := range cols {
			parts[i] = label(c[r])
		}
		if len(parts) == 1 {
			labels[r] = parts[0]
		} else {
			labels[r] = "(" + strings.Join(parts, ", ") + ")"
		}
	}
	return labels, nil
}

func label(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	if f, ok := v.(float64); ok && f == math.Trunc(f) {
		return fmt.Sprint(int64(f))
	}
	return utils.FormatValue(v)
}

// numbers reads a numeric column. Absent cells become 0 and are flagged
// invalid so lines can skip them.
func numbers(t *table.Table, name string) ([]float64, []bool, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrRender, err)
	}
	values := make([]float64, len(col))
	valid := make([]bool, len(col))
	for i, v := range col {
		if v == nil {
			continue
		}
		f, ok := utils.Numeric(v)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s: column %q is not numeric (row %d is %T)",
				model.ErrRender, t.Name, name, i, v)
		}
		values[i], valid[i] = f, true
	}
	return values, valid, nil
}
