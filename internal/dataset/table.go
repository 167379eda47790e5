package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "text"
}

// Options controls how raw cells become a Table.
type Options struct {
	// Delimiter for delimited text. If 0, chosen by file extension.
	Delimiter rune
	// DecimalSeparator for numbers. If 0, auto-detect per value.
	DecimalSeparator rune
	// ThousandsSeparator for numbers. If 0, any of ',', '.' and space other
	// than the decimal separator is stripped.
	ThousandsSeparator rune
	// MissingValues are extra tokens treated as absent cells.
	MissingValues []string
	// SheetName or 1-based SheetIndex select the worksheet for XLSX input.
	SheetName  string
	SheetIndex int
}

// DefaultOptions matches the CMS public use files: '.' decimals.
func DefaultOptions() Options {
	return Options{DecimalSeparator: '.'}
}

type column struct {
	name    string
	kind    Kind
	text    []string
	nums    []float64 // NaN where missing; nil for text columns
	missing []bool
	invalid int // first present row that is not a number, -1 if none
}

// Table is an immutable, column-oriented record table.
type Table struct {
	name string
	cols []*column
	rows int
}

// Value is a single cell.
type Value struct {
	Kind    Kind
	Num     float64
	Text    string
	Missing bool
}

func (v Value) String() string {
	if v.Missing {
		return ""
	}
	if v.Kind == KindNumeric {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Text
}

// NewTable infers column kinds from raw records. Rows shorter than the
// header are padded with missing cells; callers reject longer rows.
func NewTable(name string, header []string, records [][]string, opt Options) *Table {
	miss := missingSet(opt.MissingValues)
	t := &Table{name: name, rows: len(records), cols: make([]*column, len(header))}
	for j, h := range header {
		c := &column{
			name:    strings.TrimSpace(h),
			text:    make([]string, len(records)),
			missing: make([]bool, len(records)),
			invalid: -1,
		}
		nums := make([]float64, len(records))
		numeric, present := true, 0
		for i, rec := range records {
			var cell string
			if j < len(rec) {
				cell = strings.TrimSpace(rec[j])
			}
			c.text[i] = cell
			if _, ok := miss[cell]; ok {
				c.missing[i] = true
				nums[i] = math.NaN()
				continue
			}
			present++
			if !numeric {
				continue
			}
			if x, ok := parseNumeric(cell, opt); ok {
				nums[i] = x
			} else {
				numeric = false
				c.invalid = i
			}
		}
		if numeric && present > 0 {
			c.kind = KindNumeric
			c.nums = nums
		}
		t.cols[j] = c
	}
	return t
}

// Name is the base name of the source file.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.name
	}
	return out
}

// Index returns the position of the first column with the given name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.cols {
		if c.name == name {
			return i
		}
	}
	return -1
}

// ColumnName returns the name of column col.
func (t *Table) ColumnName(col int) string { return t.cols[col].name }

// Kind returns the inferred kind of column col.
func (t *Table) Kind(col int) Kind { return t.cols[col].kind }

// RequireNumeric fails with a ParseError when column col is not numeric,
// naming the first cell that is not a number. Line assumes one input line
// per record after the header.
func (t *Table) RequireNumeric(col int) error {
	c := t.cols[col]
	if c.kind == KindNumeric {
		return nil
	}
	if c.invalid < 0 {
		return &ParseError{Path: t.name, Err: fmt.Errorf("column %s has no numeric values", c.name)}
	}
	return &ParseError{
		Path: t.name,
		Line: c.invalid + 2,
		Err:  fmt.Errorf("column %s: %q is not a number", c.name, c.text[c.invalid]),
	}
}

// NumericColumns returns the positions of numeric columns in table order.
func (t *Table) NumericColumns() []int {
	var out []int
	for i, c := range t.cols {
		if c.kind == KindNumeric {
			out = append(out, i)
		}
	}
	return out
}

// Value returns the cell at (row, col).
func (t *Table) Value(row, col int) Value {
	c := t.cols[col]
	v := Value{Kind: c.kind, Text: c.text[row], Missing: c.missing[row]}
	if c.kind == KindNumeric {
		v.Num = c.nums[row]
	}
	return v
}

// Float returns the numeric cell at (row, col), NaN for missing or text cells.
func (t *Table) Float(row, col int) float64 {
	c := t.cols[col]
	if c.kind != KindNumeric {
		return math.NaN()
	}
	return c.nums[row]
}

// Text returns the trimmed raw cell at (row, col).
func (t *Table) Text(row, col int) string { return t.cols[col].text[row] }

// Floats returns a copy of a numeric column, NaN where missing.
func (t *Table) Floats(col int) []float64 {
	out := make([]float64, t.rows)
	for i := range out {
		out[i] = t.Float(i, col)
	}
	return out
}

// All returns a view over every row in order.
func (t *Table) All() *View {
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	return &View{parent: t, rows: idx}
}
