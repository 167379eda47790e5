package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a single coefficient between two columns.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlate computes pairwise Pearson coefficients over every numeric column
// of t, using rows where both cells are present. A column with zero variance
// yields NaN for every pair that involves it, its diagonal included.
func Correlate(t *dataset.Table) *CorrMatrix {
	idx := t.NumericColumns()
	n := len(idx)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	data := make([][]float64, n)
	for a, col := range idx {
		m.Columns[a] = t.ColumnName(col)
		m.Values[a] = make([]float64, n)
		data[a] = t.Floats(col)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			x, y := paired(data[a], data[b])
			r := pearson(x, y)
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

func paired(xs, ys []float64) (x, y []float64) {
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, ys[i])
	}
	return x, y
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 || constant(x) || constant(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

// Index returns the position of a column in the matrix, or -1.
func (m *CorrMatrix) Index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// At returns the coefficient for a column pair. ok is false if either
// column is not part of the matrix.
func (m *CorrMatrix) At(a, b string) (r float64, ok bool) {
	i, j := m.Index(a), m.Index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// Against lists the coefficients of one column against every other column,
// strongest |r| first and NaN last.
func (m *CorrMatrix) Against(name string) []PairCorr {
	i := m.Index(name)
	if i < 0 {
		return nil
	}
	out := make([]PairCorr, 0, len(m.Columns)-1)
	for j, c := range m.Columns {
		if j == i {
			continue
		}
		out = append(out, PairCorr{A: name, B: c, R: m.Values[i][j]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		ra, rb := out[a].R, out[b].R
		if math.IsNaN(rb) {
			return !math.IsNaN(ra)
		}
		if math.IsNaN(ra) {
			return false
		}
		return math.Abs(ra) > math.Abs(rb)
	})
	return out
}
