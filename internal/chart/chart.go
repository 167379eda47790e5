package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/KaramelBytes/rxtrend/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const rateAxis = "Opioid Prescribing Rate (%)"

// ErrNoNumericColumns is returned when a heatmap has nothing to show.
var ErrNoNumericColumns = errors.New("no numeric columns to correlate")

// Options controls chart size and output format.
type Options struct {
	Width  vg.Length
	Height vg.Length
	Format string // png, svg or pdf
}

// DefaultOptions returns 10x8 inch PNG output.
func DefaultOptions() Options {
	return Options{Width: 10 * vg.Inch, Height: 8 * vg.Inch, Format: "png"}
}

// InchOptions builds options from config values in inches.
func InchOptions(width, height float64, format string) Options {
	return Options{Width: vg.Length(width) * vg.Inch, Height: vg.Length(height) * vg.Inch, Format: format}
}

func (o Options) ext() string {
	f := strings.ToLower(strings.TrimPrefix(o.Format, "."))
	if f == "" {
		f = "png"
	}
	return "." + f
}

// Save writes p to dir/name using the configured format and returns the path.
func Save(p *plot.Plot, dir, name string, opt Options) (string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name+opt.ext())
	if err := p.Save(opt.Width, opt.Height, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", path, err)
	}
	return path, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 of the
// matrix is drawn at the top.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// Heatmap draws an annotated correlation matrix. The diverging palette is
// fixed to [-1, 1] so colors compare across runs; NaN cells are grey.
func Heatmap(m *analysis.CorrMatrix) (*plot.Plot, error) {
	n := len(m.Columns)
	if n == 0 {
		return nil, ErrNoNumericColumns
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	p := plot.New()
	p.Title.Text = "Correlation Matrix"
	p.Title.TextStyle.Font.Size = vg.Points(16)

	h := plotter.NewHeatMap(corrGrid{m: m}, cmap.Palette(255))
	h.Min, h.Max = -1, 1
	h.NaN = color.Gray{Y: 0xc0}
	p.Add(h)

	var xys plotter.XYs
	var labels []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.Values[n-1-r][c]
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			if math.IsNaN(v) {
				labels = append(labels, "NaN")
			} else {
				labels = append(labels, fmt.Sprintf("%.2f", v))
			}
		}
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("heatmap labels: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(l)

	rows := make([]string, n)
	for i, c := range m.Columns {
		rows[n-1-i] = c
	}
	p.NominalX(m.Columns...)
	p.NominalY(rows...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return p, nil
}

// StateBars draws a horizontal bar per geography in v, highest rate on top.
// Rows with a missing rate are left out.
func StateBars(v *dataset.View, cols analysis.Columns) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Opioid Prescribing Rates by State"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = rateAxis
	p.Y.Label.Text = "State"

	var values plotter.Values
	var names []string
	// v is sorted descending; bars are laid out bottom-up.
	for i := v.Len() - 1; i >= 0; i-- {
		r := v.Float(i, cols.Rate)
		if math.IsNaN(r) {
			continue
		}
		values = append(values, r)
		names = append(names, v.Text(i, cols.GeoDesc))
	}
	if len(values) == 0 {
		return p, nil
	}
	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return nil, fmt.Errorf("state bars: %w", err)
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalY(names...)
	return p, nil
}

// TrendTitle names a trend chart after its geography level.
func TrendTitle(level string) string {
	return fmt.Sprintf("%s Opioid Prescribing Rate Over Time", level)
}

// TrendLines draws one line with markers per pivot column. A legend is shown
// only when there is more than one series.
func TrendLines(pv *analysis.Pivot, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = rateAxis
	p.Add(plotter.NewGrid())

	numeric := pv.NumericIndex()
	pos := make(map[string]float64, len(pv.Index))
	ticks := make([]plot.Tick, len(pv.Index))
	for i, idx := range pv.Index {
		x := float64(i)
		if numeric {
			x, _ = strconv.ParseFloat(idx, 64)
		}
		pos[idx] = x
		ticks[i] = plot.Tick{Value: x, Label: idx}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	for i, col := range pv.Columns {
		series := pv.Series(col)
		xys := make(plotter.XYs, len(series))
		for j, pt := range series {
			xys[j] = plotter.XY{X: pos[pt.Index], Y: pt.Value}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("trend series %s: %w", col, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(2)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		if len(pv.Columns) > 1 {
			p.Legend.Add(col, line, points)
		}
	}
	p.Legend.Top = true
	return p, nil
}

// File names of the charts written by RenderAll.
const (
	HeatmapFile = "correlation_heatmap"
	StatesFile  = "state_rates"
)

// TrendFile names the trend chart for a geography level.
func TrendFile(level string) string { return utils.SafeName(level, "geo") + "_trend" }

// RenderAll builds every chart for res and then writes them to dir. No file
// is written if any chart fails to build.
func RenderAll(res *analysis.Result, dir string, opt Options) ([]string, error) {
	heat, err := Heatmap(res.Corr)
	if err != nil {
		return nil, err
	}
	states, err := StateBars(res.States, res.Cols)
	if err != nil {
		return nil, err
	}
	trend, err := TrendLines(res.Pivot, TrendTitle(res.Settings.TrendLevel))
	if err != nil {
		return nil, err
	}
	plots := []struct {
		p    *plot.Plot
		name string
	}{
		{heat, HeatmapFile},
		{states, StatesFile},
		{trend, TrendFile(res.Settings.TrendLevel)},
	}
	var paths []string
	for _, x := range plots {
		path, err := Save(x.p, dir, x.name, opt)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
