package analysis

import (
	"strings"

	"github.com/KaramelBytes/rxtrend/internal/dataset"
)

// ColumnNames names the columns the geography views read. Each name may be
// either the original code or its display label.
type ColumnNames struct {
	GeoLevel string
	GeoDesc  string
	Year     string
	Rate     string
}

// DefaultColumnNames matches the CMS opioid prescribing by geography file.
func DefaultColumnNames() ColumnNames {
	return ColumnNames{
		GeoLevel: "Geo_Lvl",
		GeoDesc:  "Geo_Desc",
		Year:     "Year",
		Rate:     "Opioid_Prscrbng_Rate",
	}
}

// Columns holds resolved column positions in a table.
type Columns struct {
	GeoLevel, GeoDesc, Year, Rate int
}

// ResolveColumns looks up every referenced column, failing with a
// dataset.MissingColumnError on the first one that is absent.
func ResolveColumns(t *dataset.Table, names ColumnNames, renames dataset.RenameMap) (Columns, error) {
	var c Columns
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{names.GeoLevel, &c.GeoLevel},
		{names.GeoDesc, &c.GeoDesc},
		{names.Year, &c.Year},
		{names.Rate, &c.Rate},
	} {
		i, err := t.Resolve(f.name, renames)
		if err != nil {
			return Columns{}, err
		}
		*f.dst = i
	}
	return c, nil
}

// FilterGeo returns the rows of v whose geography-level cell equals value,
// in their original order. No match yields an empty view.
func FilterGeo(v *dataset.View, geoCol int, value string) *dataset.View {
	t := v.Table()
	value = strings.TrimSpace(value)
	return v.Where(func(r int) bool { return t.Text(r, geoCol) == value })
}

// FilterDesc narrows v to the given geography descriptions. An empty list
// keeps every row.
func FilterDesc(v *dataset.View, descCol int, descs []string) *dataset.View {
	if len(descs) == 0 {
		return v
	}
	want := make(map[string]bool, len(descs))
	for _, d := range descs {
		want[strings.ToLower(strings.TrimSpace(d))] = true
	}
	t := v.Table()
	return v.Where(func(r int) bool { return want[strings.ToLower(t.Text(r, descCol))] })
}

// StateView returns the rows at the given level sorted by prescribing rate,
// highest first.
func StateView(t *dataset.Table, cols Columns, level string) *dataset.View {
	return FilterGeo(t.All(), cols.GeoLevel, level).SortDesc(cols.Rate)
}
