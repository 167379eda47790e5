package render

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/rxtrend/internal/analysis"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SheetCorrelation = "Correlation"
	SheetStates      = "States"
	SheetTrend       = "Trend"
)

// cell leaves NaN cells empty.
func cell(v float64) any {
	if math.IsNaN(v) {
		return ""
	}
	return v
}

// WriteWorkbook exports the correlation matrix, the full state ranking and
// the trend pivot of res into an XLSX file at path.
func WriteWorkbook(path string, res *analysis.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetCorrelation); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeCorrelation(f, res.Corr); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetStates); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetStates, err)
	}
	if err := writeStates(f, res); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetTrend); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetTrend, err)
	}
	if err := writePivot(f, res.Pivot); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	addr, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, addr, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func writeCorrelation(f *excelize.File, m *analysis.CorrMatrix) error {
	header := []any{""}
	for _, c := range m.Columns {
		header = append(header, c)
	}
	if err := setRow(f, SheetCorrelation, 1, header); err != nil {
		return err
	}
	for i, c := range m.Columns {
		row := []any{c}
		for _, v := range m.Values[i] {
			row = append(row, cell(v))
		}
		if err := setRow(f, SheetCorrelation, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeStates(f *excelize.File, res *analysis.Result) error {
	v, cols := res.States, res.Cols
	header := []any{"Rank", res.Table.ColumnName(cols.GeoDesc), res.Table.ColumnName(cols.Year), res.RateColumn()}
	if err := setRow(f, SheetStates, 1, header); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		row := []any{i + 1, v.Text(i, cols.GeoDesc), v.Text(i, cols.Year), cell(v.Float(i, cols.Rate))}
		if err := setRow(f, SheetStates, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writePivot(f *excelize.File, p *analysis.Pivot) error {
	header := []any{"Year"}
	for _, c := range p.Columns {
		header = append(header, c)
	}
	if err := setRow(f, SheetTrend, 1, header); err != nil {
		return err
	}
	for i, idx := range p.Index {
		row := []any{idx}
		for _, c := range p.Columns {
			if v, ok := p.Lookup(idx, c); ok {
				row = append(row, v)
			} else {
				row = append(row, "")
			}
		}
		if err := setRow(f, SheetTrend, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
