package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var geoRows = []string{
	"Year,Geo_Lvl,Geo_Cd,Geo_Desc,Tot_Clms,Tot_Opioid_Clms,Opioid_Prscrbng_Rate",
	"2021,National,,National,1000,50,5.0",
	"2021,State,01,Alabama,200,20,10.0",
	"2021,State,02,Alaska,100,3,3.0",
	"2020,National,,National,900,54,6.0",
	"2020,State,01,Alabama,190,,",
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadCSVInfersKinds(t *testing.T) {
	p := writeFile(t, "geo.csv", strings.Join(geoRows, "\n"))
	tbl, err := Load(p, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "geo.csv", tbl.Name())
	assert.Equal(t, 5, tbl.Len())
	assert.Equal(t, []string{"Year", "Geo_Lvl", "Geo_Cd", "Geo_Desc", "Tot_Clms", "Tot_Opioid_Clms", "Opioid_Prscrbng_Rate"}, tbl.Columns())

	assert.Equal(t, KindNumeric, tbl.Kind(tbl.Index("Year")))
	assert.Equal(t, KindText, tbl.Kind(tbl.Index("Geo_Lvl")))
	assert.Equal(t, KindNumeric, tbl.Kind(tbl.Index("Geo_Cd")))
	assert.Equal(t, KindNumeric, tbl.Kind(tbl.Index("Opioid_Prscrbng_Rate")))

	rate := tbl.Index("Opioid_Prscrbng_Rate")
	assert.Equal(t, 10.0, tbl.Float(1, rate))
	assert.True(t, math.IsNaN(tbl.Float(4, rate)))
	assert.True(t, tbl.Value(4, rate).Missing)
	assert.Equal(t, "2021", tbl.Value(0, tbl.Index("Year")).String())
	assert.Equal(t, "Alaska", tbl.Text(2, tbl.Index("Geo_Desc")))
	assert.Equal(t, []int{0, 2, 4, 5, 6}, tbl.NumericColumns())
}

func TestLoadTSVAndBOM(t *testing.T) {
	p := writeFile(t, "geo.tsv", "\ufeffa\tb\n1\tx\n2\ty\n")
	tbl, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
	assert.Equal(t, 2.0, tbl.Float(1, 0))
}

func TestLoadShortRowsArePadded(t *testing.T) {
	p := writeFile(t, "short.csv", "a,b,c\n1,2\n")
	tbl, err := Load(p, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, tbl.Value(0, 2).Missing)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFileNotFound))
	})
	t.Run("missing workbook", func(t *testing.T) {
		_, err := LoadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultOptions())
		assert.True(t, errors.Is(err, ErrFileNotFound))
	})
	t.Run("long row", func(t *testing.T) {
		p := writeFile(t, "long.csv", "a,b\n1,2\n3,4,5\n")
		_, err := Load(p, DefaultOptions())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrParse))
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 3, pe.Line)
	})
	t.Run("bad quote", func(t *testing.T) {
		p := writeFile(t, "quote.csv", "a,b\n\"1,2\n")
		_, err := Load(p, DefaultOptions())
		assert.True(t, errors.Is(err, ErrParse))
	})
	t.Run("empty", func(t *testing.T) {
		p := writeFile(t, "empty.csv", "")
		_, err := Load(p, DefaultOptions())
		assert.True(t, errors.Is(err, ErrParse))
		assert.Contains(t, err.Error(), "missing header row")
	})
}

func TestParseNumericSeparators(t *testing.T) {
	cases := []struct {
		in   string
		opt  Options
		want float64
		ok   bool
	}{
		{"12.5", DefaultOptions(), 12.5, true},
		{"12.5%", DefaultOptions(), 12.5, true},
		{"1,5", Options{}, 1.5, true},
		{"1.000,5", Options{}, 1000.5, true},
		{"1,000.5", Options{DecimalSeparator: '.', ThousandsSeparator: ','}, 1000.5, true},
		{"1.234,5", Options{DecimalSeparator: ','}, 1234.5, true},
		{"1 234,5", Options{DecimalSeparator: ','}, 1234.5, true},
		{"12,345", DefaultOptions(), 12345, true},
		{"Alabama", DefaultOptions(), 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, c.opt)
		assert.Equal(t, c.ok, ok, c.in)
		if c.ok {
			assert.InDelta(t, c.want, got, 1e-9, c.in)
		}
	}
}

func TestCommaDecimalColumnIsNumeric(t *testing.T) {
	tbl := NewTable("eu", []string{"rate"}, [][]string{{"1.234,5"}, {"2,5"}}, Options{DecimalSeparator: ','})
	require.Equal(t, KindNumeric, tbl.Kind(0))
	assert.Equal(t, 1234.5, tbl.Float(0, 0))
	assert.Equal(t, 2.5, tbl.Float(1, 0))
}

func TestRequireNumericNamesFirstBadCell(t *testing.T) {
	tbl := NewTable("rates.csv", []string{"Geo_Desc", "Rate", "Note"}, [][]string{
		{"Ohio", "10.0", ""},
		{"Texas", "", ""},
		{"Maine", "*", ""},
		{"Iowa", "x", ""},
	}, DefaultOptions())
	assert.Equal(t, KindText, tbl.Kind(1))

	err := tbl.RequireNumeric(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 4, pe.Line)
	assert.Contains(t, err.Error(), `"*"`)

	// Renaming keeps the diagnostic, under the new name.
	err = tbl.Rename(RenameMap{"Rate": "Prescribing Rate"}).RequireNumeric(1)
	assert.Contains(t, err.Error(), "Prescribing Rate")

	err = tbl.RequireNumeric(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no numeric values")

	assert.NoError(t, NewTable("ok", []string{"r"}, [][]string{{"1"}}, DefaultOptions()).RequireNumeric(0))
}

func TestRenamePreservesRowsAndData(t *testing.T) {
	p := writeFile(t, "geo.csv", strings.Join(geoRows, "\n"))
	src, err := Load(p, DefaultOptions())
	require.NoError(t, err)

	renamed := src.Rename(DefaultRenames())
	assert.Equal(t, src.Len(), renamed.Len())
	assert.Equal(t, "Opioid Prescribing Rate", renamed.ColumnName(6))
	assert.Equal(t, "Geo_Desc", renamed.ColumnName(3))
	assert.Equal(t, "Opioid_Prscrbng_Rate", src.ColumnName(6), "source table untouched")
	for i := 0; i < src.Len(); i++ {
		for j := 0; j < src.Width(); j++ {
			a, b := src.Value(i, j), renamed.Value(i, j)
			assert.Equal(t, a.Missing, b.Missing)
			assert.Equal(t, a.String(), b.String())
		}
	}
}

func TestResolveByCodeOrLabel(t *testing.T) {
	p := writeFile(t, "geo.csv", strings.Join(geoRows, "\n"))
	src, err := Load(p, DefaultOptions())
	require.NoError(t, err)
	m := DefaultRenames()
	renamed := src.Rename(m)

	i, err := renamed.Resolve("Opioid_Prscrbng_Rate", m)
	require.NoError(t, err)
	assert.Equal(t, 6, i)

	i, err = src.Resolve("Opioid Prescribing Rate", m)
	require.NoError(t, err)
	assert.Equal(t, 6, i)

	_, err = renamed.Resolve("Geo_Lvl_Missing", m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "Geo_Lvl_Missing")
}

func TestViewWhereAndSortDesc(t *testing.T) {
	p := writeFile(t, "geo.csv", strings.Join(geoRows, "\n"))
	tbl, err := Load(p, DefaultOptions())
	require.NoError(t, err)
	lvl, rate := tbl.Index("Geo_Lvl"), tbl.Index("Opioid_Prscrbng_Rate")

	states := tbl.All().Where(func(r int) bool { return tbl.Text(r, lvl) == "State" })
	assert.Equal(t, []int{1, 2, 4}, states.Rows())

	sorted := states.SortDesc(rate)
	assert.Equal(t, []int{1, 2, 4}, sorted.Rows(), "missing rate sorts last")
	assert.Equal(t, []int{1, 2, 4}, states.Rows(), "sorting does not mutate the source view")

	none := tbl.All().Where(func(int) bool { return false })
	assert.Equal(t, 0, none.Len())
}

func TestSortDescIsStable(t *testing.T) {
	tbl := NewTable("t", []string{"k", "v"}, [][]string{{"a", "1"}, {"b", "2"}, {"c", "1"}, {"d", "2"}}, DefaultOptions())
	sorted := tbl.All().SortDesc(1)
	var keys []string
	for i := 0; i < sorted.Len(); i++ {
		keys = append(keys, sorted.Text(i, 0))
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, keys)
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Notes"))
	_, err := f.NewSheet("Data")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Notes", "A1", &[]interface{}{"readme"}))
	require.NoError(t, f.SetSheetRow("Data", "A1", &[]interface{}{"Geo_Lvl", "Opioid_Prscrbng_Rate"}))
	require.NoError(t, f.SetSheetRow("Data", "A2", &[]interface{}{"State", 12.5}))
	require.NoError(t, f.SetSheetRow("Data", "A3", &[]interface{}{"National", 7}))
	p := filepath.Join(t.TempDir(), "geo.xlsx")
	require.NoError(t, f.SaveAs(p))

	byName, err := Load(p, Options{SheetName: "data"})
	require.NoError(t, err)
	assert.Equal(t, 2, byName.Len())
	assert.Equal(t, 12.5, byName.Float(0, 1))

	byIndex, err := Load(p, Options{SheetIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Geo_Lvl", "Opioid_Prscrbng_Rate"}, byIndex.Columns())

	_, err = Load(p, Options{SheetName: "Missing"})
	assert.True(t, errors.Is(err, ErrParse))
}
