package dataset

import (
	"math"
	"sort"
)

// View is a filtered or reordered subset of a Table. It holds row indices
// into the parent and never copies or mutates cell data.
type View struct {
	parent *Table
	rows   []int
}

// Table returns the parent table.
func (v *View) Table() *Table { return v.parent }

// Len returns the number of rows in the view.
func (v *View) Len() int { return len(v.rows) }

// Row maps a view position to the parent row index.
func (v *View) Row(i int) int { return v.rows[i] }

// Rows returns a copy of the parent row indices in view order.
func (v *View) Rows() []int {
	out := make([]int, len(v.rows))
	copy(out, v.rows)
	return out
}

func (v *View) Value(i, col int) Value   { return v.parent.Value(v.rows[i], col) }
func (v *View) Float(i, col int) float64 { return v.parent.Float(v.rows[i], col) }
func (v *View) Text(i, col int) string   { return v.parent.Text(v.rows[i], col) }

// Where returns the rows for which keep reports true, in view order.
// An empty result is a valid, empty view.
func (v *View) Where(keep func(row int) bool) *View {
	out := make([]int, 0, len(v.rows))
	for _, r := range v.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &View{parent: v.parent, rows: out}
}

// SortDesc returns a view stably sorted by a numeric column, largest first.
// Missing values go last; ties keep their relative order.
func (v *View) SortDesc(col int) *View {
	out := v.Rows()
	sort.SliceStable(out, func(a, b int) bool {
		x, y := v.parent.Float(out[a], col), v.parent.Float(out[b], col)
		if math.IsNaN(y) {
			return !math.IsNaN(x)
		}
		if math.IsNaN(x) {
			return false
		}
		return x > y
	})
	return &View{parent: v.parent, rows: out}
}
