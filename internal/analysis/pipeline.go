package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/rxtrend/internal/dataset"
	"github.com/google/uuid"
)

// Settings carries the configuration data of one analysis run.
type Settings struct {
	Columns    ColumnNames
	Renames    dataset.RenameMap
	StateLevel string
	TrendLevel string
	// TrendDescs narrows the trend view to specific geographies; empty keeps all.
	TrendDescs []string
	Duplicates DuplicatePolicy
	// TopN limits state rows in reports; 0 means all.
	TopN int
}

// DefaultSettings reproduces the national opioid prescribing analysis.
func DefaultSettings() Settings {
	return Settings{
		Columns:    DefaultColumnNames(),
		Renames:    dataset.DefaultRenames(),
		StateLevel: "State",
		TrendLevel: "National",
		Duplicates: DuplicateLast,
		TopN:       10,
	}
}

// Result holds every view derived from one input table.
type Result struct {
	RunID    string
	Settings Settings
	Source   *dataset.Table
	Table    *dataset.Table // renamed
	Cols     Columns
	Corr     *CorrMatrix
	States   *dataset.View
	Trend    *dataset.View
	Pivot    *Pivot
}

// RateColumn returns the display name of the prescribing rate column.
func (r *Result) RateColumn() string { return r.Table.ColumnName(r.Cols.Rate) }

// RunFile loads path and runs the analysis on it.
func RunFile(ctx context.Context, path string, opt dataset.Options, s Settings) (*Result, error) {
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	return Run(ctx, t, s)
}

// Run renames src and derives the correlation matrix, the state ranking and
// the trend pivot. Each view reads the renamed table only; src is never
// modified.
func Run(ctx context.Context, src *dataset.Table, s Settings) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Settings: s, Source: src}
	log := slog.Default().With("run_id", res.RunID, "input", src.Name())

	res.Table = src.Rename(s.Renames)
	log.Debug("renamed columns", "rows", res.Table.Len(), "columns", res.Table.Width())

	cols, err := ResolveColumns(res.Table, s.Columns, s.Renames)
	if err != nil {
		return nil, fmt.Errorf("resolve columns: %w", err)
	}
	res.Cols = cols
	if err := res.Table.RequireNumeric(cols.Rate); err != nil {
		return nil, fmt.Errorf("rate column: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Corr = Correlate(res.Table)
	log.Debug("correlation matrix", "stage", "correlate", "numeric_columns", len(res.Corr.Columns))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.States = StateView(res.Table, cols, s.StateLevel)
	log.Debug("state view", "stage", "filter", "level", s.StateLevel, "rows", res.States.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Trend = FilterDesc(FilterGeo(res.Table.All(), cols.GeoLevel, s.TrendLevel), cols.GeoDesc, s.TrendDescs)
	res.Pivot = PivotTrend(res.Trend, cols, s.Duplicates)
	log.Debug("trend pivot", "stage", "pivot", "level", s.TrendLevel, "rows", res.Trend.Len(), "cells", res.Pivot.Len(), "duplicates", res.Pivot.Duplicates)
	return res, nil
}
