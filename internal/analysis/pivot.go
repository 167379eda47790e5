package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/rxtrend/internal/dataset"
)

// DuplicatePolicy decides the cell value when a (year, geography) pair
// occurs more than once.
type DuplicatePolicy string

const (
	// DuplicateLast keeps the value of the last row in view order.
	DuplicateLast DuplicatePolicy = "last"
	// DuplicateMean averages every value for the pair.
	DuplicateMean DuplicatePolicy = "mean"
)

// ParseDuplicatePolicy accepts "last" (or empty) and "mean".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateLast:
		return DuplicateLast, nil
	case DuplicateMean:
		return DuplicateMean, nil
	default:
		return "", fmt.Errorf("unsupported duplicate policy: %s (use last|mean)", s)
	}
}

type cellKey struct{ index, column string }

// Pivot is a year × geography grid of prescribing rates.
type Pivot struct {
	Index      []string // years, ascending
	Columns    []string // geography descriptions, ascending
	Policy     DuplicatePolicy
	Duplicates int // rows folded into an existing cell
	cells      map[cellKey]float64
}

// Point is one cell of a pivot column.
type Point struct {
	Index string
	Value float64
}

// PivotTrend reshapes v into a grid indexed by year with one column per
// geography description. Rows with a missing year, description or rate are
// skipped.
func PivotTrend(v *dataset.View, cols Columns, policy DuplicatePolicy) *Pivot {
	if policy == "" {
		policy = DuplicateLast
	}
	p := &Pivot{Policy: policy, cells: map[cellKey]float64{}}
	counts := map[cellKey]int{}
	seenIdx, seenCol := map[string]bool{}, map[string]bool{}
	for i := 0; i < v.Len(); i++ {
		year := v.Value(i, cols.Year)
		desc := v.Value(i, cols.GeoDesc)
		rate := v.Float(i, cols.Rate)
		if year.Missing || desc.Missing || math.IsNaN(rate) {
			continue
		}
		k := cellKey{index: year.String(), column: desc.String()}
		n := counts[k]
		switch {
		case n == 0:
			p.cells[k] = rate
		case policy == DuplicateMean:
			p.cells[k] += (rate - p.cells[k]) / float64(n+1)
			p.Duplicates++
		default:
			p.cells[k] = rate
			p.Duplicates++
		}
		counts[k] = n + 1
		if !seenIdx[k.index] {
			seenIdx[k.index] = true
			p.Index = append(p.Index, k.index)
		}
		if !seenCol[k.column] {
			seenCol[k.column] = true
			p.Columns = append(p.Columns, k.column)
		}
	}
	sortKeys(p.Index)
	sort.Strings(p.Columns)
	return p
}

// sortKeys orders numerically when every key is a number, else lexically.
func sortKeys(keys []string) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			sort.Strings(keys)
			return
		}
		nums[k] = f
	}
	sort.Slice(keys, func(i, j int) bool { return nums[keys[i]] < nums[keys[j]] })
}

// Len returns the number of populated cells.
func (p *Pivot) Len() int { return len(p.cells) }

// Lookup returns the cell for (index, column).
func (p *Pivot) Lookup(index, column string) (float64, bool) {
	v, ok := p.cells[cellKey{index: index, column: column}]
	return v, ok
}

// Series returns the populated cells of one column in index order.
func (p *Pivot) Series(column string) []Point {
	var out []Point
	for _, idx := range p.Index {
		if v, ok := p.Lookup(idx, column); ok {
			out = append(out, Point{Index: idx, Value: v})
		}
	}
	return out
}

// NumericIndex reports whether every index key parses as a number.
func (p *Pivot) NumericIndex() bool {
	for _, k := range p.Index {
		if _, err := strconv.ParseFloat(k, 64); err != nil {
			return false
		}
	}
	return true
}
