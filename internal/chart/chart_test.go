package chart

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `Year,Geo_Lvl,Geo_Desc,Tot_Opioid_Clms,Tot_Clms,Opioid_Prscrbng_Rate
2019,National,National,600,10000,6.0
2019,State,Ohio,90,1000,9.0
2019,State,Texas,30,1000,3.0
2020,National,National,550,10000,5.5
2020,State,Ohio,80,1000,
2021,National,National,500,10000,5.0
`

func result(t *testing.T) *analysis.Result {
	t.Helper()
	tbl, err := dataset.ReadCSV(strings.NewReader(fixture), "opioids.csv", dataset.DefaultOptions())
	require.NoError(t, err)
	res, err := analysis.Run(context.Background(), tbl, analysis.DefaultSettings())
	require.NoError(t, err)
	return res
}

func assertWritten(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), path)
}

func TestRenderAllWritesEveryChart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := RenderAll(result(t), dir, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "correlation_heatmap.png"), paths[0])
	assert.Equal(t, filepath.Join(dir, "state_rates.png"), paths[1])
	assert.Equal(t, filepath.Join(dir, "national_trend.png"), paths[2])
	for _, p := range paths {
		assertWritten(t, p)
	}
}

func TestSaveFormats(t *testing.T) {
	res := result(t)
	dir := t.TempDir()
	for _, f := range []string{"svg", "pdf"} {
		p, err := TrendLines(res.Pivot, TrendTitle("National"))
		require.NoError(t, err)
		path, err := Save(p, dir, "trend", InchOptions(6, 4, f))
		require.NoError(t, err)
		assert.Equal(t, "."+f, filepath.Ext(path))
		assertWritten(t, path)
	}
}

func TestHeatmapHandlesNaN(t *testing.T) {
	m := &analysis.CorrMatrix{
		Columns: []string{"a", "k"},
		Values:  [][]float64{{1, math.NaN()}, {math.NaN(), math.NaN()}},
	}
	p, err := Heatmap(m)
	require.NoError(t, err)
	assert.Equal(t, "Correlation Matrix", p.Title.Text)
	path, err := Save(p, t.TempDir(), "heat", DefaultOptions())
	require.NoError(t, err)
	assertWritten(t, path)

	_, err = Heatmap(&analysis.CorrMatrix{})
	assert.ErrorIs(t, err, ErrNoNumericColumns)
}

func TestStateBarsLabels(t *testing.T) {
	res := result(t)
	p, err := StateBars(res.States, res.Cols)
	require.NoError(t, err)
	assert.Equal(t, "Opioid Prescribing Rates by State", p.Title.Text)
	assert.Equal(t, "Opioid Prescribing Rate (%)", p.X.Label.Text)
	assert.Equal(t, "State", p.Y.Label.Text)

	empty := analysis.FilterGeo(res.Table.All(), res.Cols.GeoLevel, "County")
	p, err = StateBars(empty, res.Cols)
	require.NoError(t, err)
	path, err := Save(p, t.TempDir(), "empty", DefaultOptions())
	require.NoError(t, err)
	assertWritten(t, path)
}

func TestTrendLines(t *testing.T) {
	res := result(t)
	p, err := TrendLines(res.Pivot, TrendTitle("National"))
	require.NoError(t, err)
	assert.Equal(t, "National Opioid Prescribing Rate Over Time", p.Title.Text)
	assert.Equal(t, "Year", p.X.Label.Text)
	assert.Equal(t, "Opioid Prescribing Rate (%)", p.Y.Label.Text)

	states := analysis.FilterGeo(res.Table.All(), res.Cols.GeoLevel, "State")
	sp := analysis.PivotTrend(states, res.Cols, analysis.DuplicateLast)
	require.Equal(t, []string{"Ohio", "Texas"}, sp.Columns)
	p, err = TrendLines(sp, TrendTitle("State"))
	require.NoError(t, err)
	path, err := Save(p, t.TempDir(), TrendFile("State"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "state_trend.png", filepath.Base(path))
	assertWritten(t, path)
}
