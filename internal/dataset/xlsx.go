package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xlsx")
}

func (xlsxLoader) Load(path string, opt Options) (*Table, error) { return LoadXLSX(path, opt) }

// LoadXLSX reads one worksheet of a workbook. The sheet is chosen by
// opt.SheetName, else by the 1-based opt.SheetIndex, else the first sheet.
// The first row is the header.
func LoadXLSX(path string, opt Options) (*Table, error) {
	name := filepath.Base(path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, &ParseError{Path: name, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Path: name, Err: errors.New("workbook has no sheets")}
	}
	sheet := ""
	switch {
	case opt.SheetName != "":
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &ParseError{Path: name, Err: fmt.Errorf("sheet %q not found (available: %s)", opt.SheetName, strings.Join(sheets, ", "))}
		}
	case opt.SheetIndex > 0:
		if opt.SheetIndex > len(sheets) {
			return nil, &ParseError{Path: name, Err: fmt.Errorf("sheet index %d out of range (workbook has %d)", opt.SheetIndex, len(sheets))}
		}
		sheet = sheets[opt.SheetIndex-1]
	default:
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Path: name, Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Path: name, Line: 1, Err: errors.New("missing header row")}
	}
	header := rows[0]
	for i, rec := range rows[1:] {
		if len(rec) > len(header) {
			return nil, &ParseError{Path: name, Line: i + 2, Err: fmt.Errorf("expected %d fields, saw %d", len(header), len(rec))}
		}
	}
	return NewTable(name, header, rows[1:], opt), nil
}
