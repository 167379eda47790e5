package dataset

// RenameMap maps original column codes to display labels.
type RenameMap map[string]string

// DefaultRenames returns the labels for the CMS opioid prescribing codes.
func DefaultRenames() RenameMap {
	return RenameMap{
		"Tot_Opioid_Clms":                "Opioid Claims",
		"Tot_Clms":                       "Overall Claims",
		"Opioid_Prscrbng_Rate":           "Opioid Prescribing Rate",
		"Opioid_Prscrbng_Rate_5Y_Chg":    "Five Year Change in Opioid Prescribing Rate",
		"Opioid_Prscrbng_Rate_1Y_Chg":    "One Year Change in Opioid Prescribing Rate",
		"LA_Tot_Opioid_Clms":             "Long-Acting Opioid Claims",
		"LA_Opioid_Prscrbng_Rate":        "Long-Acting Opioid Prescribing Rate",
		"LA_Opioid_Prscrbng_Rate_5Y_Chg": "Five Year Change in Long-Acting Opioid Prescribing Rate",
		"LA_Opioid_Prscrbng_Rate_1Y_Chg": "One Year Change in Long-Acting Opioid Prescribing Rate",
	}
}

// Label returns the display label for a column name, or the name itself.
func (m RenameMap) Label(name string) string {
	if l, ok := m[name]; ok {
		return l
	}
	return name
}

// Rename returns a table whose matched column names are replaced by their
// labels. Unmapped columns keep their names. Cell data is shared, so row
// count and order are unchanged.
func (t *Table) Rename(m RenameMap) *Table {
	out := &Table{name: t.name, rows: t.rows, cols: make([]*column, len(t.cols))}
	for i, c := range t.cols {
		cp := *c
		cp.name = m.Label(c.name)
		out.cols[i] = &cp
	}
	return out
}

// Resolve finds a column by name. A name absent from the table is retried
// through the rename map in both directions, so callers may refer to a
// column by its code or by its label.
func (t *Table) Resolve(name string, m RenameMap) (int, error) {
	if i := t.Index(name); i >= 0 {
		return i, nil
	}
	if l, ok := m[name]; ok {
		if i := t.Index(l); i >= 0 {
			return i, nil
		}
	}
	for code, label := range m {
		if label == name {
			if i := t.Index(code); i >= 0 {
				return i, nil
			}
		}
	}
	return -1, &MissingColumnError{Column: name, Available: t.Columns()}
}
