package render

import (
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func formatFloat(v float64, prec int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// Correlations renders the coefficients of one column against the others.
func Correlations(w io.Writer, rate string, pairs []analysis.PairCorr) {
	if len(pairs) == 0 {
		_, _ = fmt.Fprintln(w, "(no correlations)")
		return
	}
	t := newTable(w, "Correlation with "+rate)
	t.AppendHeader(table.Row{"Column", "r"})
	for _, p := range pairs {
		t.AppendRow(table.Row{p.B, formatFloat(p.R, 3)})
	}
	t.Render()
}

// States renders the first topN rows of a sorted geography view; 0 means all.
func States(w io.Writer, level string, v *dataset.View, cols analysis.Columns, topN int) {
	if v.Len() == 0 {
		_, _ = fmt.Fprintf(w, "(no %s rows)\n", level)
		return
	}
	n := v.Len()
	if topN > 0 && topN < n {
		n = topN
	}
	t := newTable(w, level+" ranking")
	t.AppendHeader(table.Row{"#", v.Table().ColumnName(cols.GeoDesc), v.Table().ColumnName(cols.Rate)})
	for i := 0; i < n; i++ {
		t.AppendRow(table.Row{i + 1, v.Text(i, cols.GeoDesc), formatFloat(v.Float(i, cols.Rate), 2)})
	}
	t.Render()
	if n < v.Len() {
		_, _ = fmt.Fprintf(w, "(showing %d of %d rows)\n", n, v.Len())
	}
}

// Pivot renders a trend grid with one row per year.
func Pivot(w io.Writer, title string, p *analysis.Pivot) {
	if p.Len() == 0 {
		_, _ = fmt.Fprintln(w, "(no trend rows)")
		return
	}
	t := newTable(w, title)
	header := table.Row{"Year"}
	for _, c := range p.Columns {
		header = append(header, c)
	}
	t.AppendHeader(header)
	for _, idx := range p.Index {
		row := table.Row{idx}
		for _, c := range p.Columns {
			if v, ok := p.Lookup(idx, c); ok {
				row = append(row, formatFloat(v, 2))
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

// Columns lists the columns of t with their kind, display label and
// missing-cell count.
func Columns(w io.Writer, t *dataset.Table, renames dataset.RenameMap) {
	tw := newTable(w, t.Name())
	tw.AppendHeader(table.Row{"#", "Column", "Label", "Kind", "Missing"})
	for j, name := range t.Columns() {
		missing := 0
		for i := 0; i < t.Len(); i++ {
			if t.Value(i, j).Missing {
				missing++
			}
		}
		label := renames.Label(name)
		if label == name {
			label = ""
		}
		tw.AppendRow(table.Row{j + 1, name, label, t.Kind(j).String(), missing})
	}
	tw.Render()
	_, _ = fmt.Fprintf(w, "(%d rows, %d columns)\n", t.Len(), t.Width())
}
