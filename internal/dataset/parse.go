package dataset

import (
	"strconv"
	"strings"
)

// defaultMissing lists cell tokens treated as absent values.
var defaultMissing = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "-"}

func missingSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultMissing)+len(extra))
	for _, s := range defaultMissing {
		set[s] = struct{}{}
	}
	for _, s := range extra {
		set[strings.TrimSpace(s)] = struct{}{}
	}
	return set
}

// parseNumeric parses a cell using the configured separators. A zero
// DecimalSeparator auto-detects per value.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
