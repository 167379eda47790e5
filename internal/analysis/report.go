package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report is a markdown-friendly summary of an analysis run.
type Report struct {
	Name       string
	RunID      string
	Rows       int
	Cols       []ColumnSummary
	RateColumn string
	RateCorr   []PairCorr
	StateLevel string
	StateCount int
	States     []GeoRate
	TrendLevel string
	Trend      *Pivot
	Warnings   []string
}

// ColumnSummary captures kind and basic statistics per column.
type ColumnSummary struct {
	Name     string
	Original string
	Kind     string
	NonNull  int
	Missing  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

// GeoRate is one geography with its prescribing rate.
type GeoRate struct {
	Desc string
	Rate float64
}

// Report summarizes the result. States are limited to Settings.TopN.
func (r *Result) Report() *Report {
	rep := &Report{
		Name:       r.Table.Name(),
		RunID:      r.RunID,
		Rows:       r.Table.Len(),
		RateColumn: r.RateColumn(),
		RateCorr:   r.Corr.Against(r.RateColumn()),
		StateLevel: r.Settings.StateLevel,
		StateCount: r.States.Len(),
		TrendLevel: r.Settings.TrendLevel,
		Trend:      r.Pivot,
	}
	for j := 0; j < r.Table.Width(); j++ {
		rep.Cols = append(rep.Cols, summarize(r.Table, j, r.Source.ColumnName(j)))
	}
	limit := r.States.Len()
	if r.Settings.TopN > 0 && r.Settings.TopN < limit {
		limit = r.Settings.TopN
	}
	for i := 0; i < limit; i++ {
		rep.States = append(rep.States, GeoRate{Desc: r.States.Text(i, r.Cols.GeoDesc), Rate: r.States.Float(i, r.Cols.Rate)})
	}
	if r.States.Len() == 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("no rows with %s = %q", r.Table.ColumnName(r.Cols.GeoLevel), r.Settings.StateLevel))
	}
	if r.Trend.Len() == 0 {
		level := r.Table.ColumnName(r.Cols.GeoLevel)
		if len(r.Settings.TrendDescs) > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("no rows with %s = %q and %s in [%s]", level, r.Settings.TrendLevel,
				r.Table.ColumnName(r.Cols.GeoDesc), strings.Join(r.Settings.TrendDescs, ", ")))
		} else {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("no rows with %s = %q", level, r.Settings.TrendLevel))
		}
	}
	if r.Pivot.Duplicates > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d duplicate (year, geography) rows folded using policy %q", r.Pivot.Duplicates, r.Pivot.Policy))
	}
	for i, c := range r.Corr.Columns {
		if math.IsNaN(r.Corr.Values[i][i]) {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has zero variance; its correlations are undefined", c))
		}
	}
	return rep
}

func summarize(t *dataset.Table, col int, original string) ColumnSummary {
	s := ColumnSummary{Name: t.ColumnName(col), Kind: t.Kind(col).String()}
	if original != s.Name {
		s.Original = original
	}
	var nums []float64
	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, col)
		if v.Missing {
			s.Missing++
			continue
		}
		s.NonNull++
		if v.Kind == dataset.KindNumeric {
			nums = append(nums, v.Num)
		}
	}
	if len(nums) > 0 {
		s.Min = floats.Min(nums)
		s.Max = floats.Max(nums)
		if len(nums) > 1 {
			s.Mean, s.Std = stat.MeanStdDev(nums, nil)
		} else {
			s.Mean = nums[0]
		}
	}
	return s
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		name := safeName(c.Name)
		if c.Original != "" {
			name = fmt.Sprintf("%s (%s)", name, c.Original)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct))
		if c.Kind == dataset.KindNumeric.String() && c.NonNull > 0 {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		}
		b.WriteString("\n")
	}

	if len(r.RateCorr) > 0 {
		b.WriteString(fmt.Sprintf("\n[CORRELATIONS WITH %s]\n", strings.ToUpper(r.RateColumn)))
		for _, p := range r.RateCorr {
			b.WriteString(fmt.Sprintf("- %s: r=%s\n", p.B, formatR(p.R)))
		}
	}

	if len(r.States) > 0 {
		b.WriteString(fmt.Sprintf("\n[%s RANKING]\n", strings.ToUpper(r.StateLevel)))
		for i, s := range r.States {
			b.WriteString(fmt.Sprintf("%d. %s: %s\n", i+1, safeVal(s.Desc), formatRate(s.Rate)))
		}
		if r.StateCount > len(r.States) {
			b.WriteString(fmt.Sprintf("(showing %d of %d)\n", len(r.States), r.StateCount))
		}
	}

	if r.Trend != nil && r.Trend.Len() > 0 {
		b.WriteString(fmt.Sprintf("\n[%s TREND]\n", strings.ToUpper(r.TrendLevel)))
		b.WriteString("| Year")
		for _, c := range r.Trend.Columns {
			b.WriteString(" | ")
			b.WriteString(safeVal(c))
		}
		b.WriteString(" |\n|---")
		for range r.Trend.Columns {
			b.WriteString("|---")
		}
		b.WriteString("|\n")
		for _, idx := range r.Trend.Index {
			b.WriteString("| ")
			b.WriteString(idx)
			for _, c := range r.Trend.Columns {
				b.WriteString(" | ")
				if v, ok := r.Trend.Lookup(idx, c); ok {
					b.WriteString(formatRate(v))
				}
			}
			b.WriteString(" |\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatR(r float64) string {
	if math.IsNaN(r) {
		return "NaN"
	}
	return fmt.Sprintf("%.3f", r)
}

func formatRate(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
