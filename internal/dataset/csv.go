package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".txt")
}

func (csvLoader) Load(path string, opt Options) (*Table, error) { return LoadCSV(path, opt) }

// LoadCSV reads a delimited text file with a header row.
func LoadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, filepath.Base(path), opt)
}

// ReadCSV reads delimited text from r. name is used in errors and reports.
func ReadCSV(r io.Reader, name string, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: name, Line: 1, Err: errors.New("missing header row")}
		}
		return nil, csvParseError(name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	ncol := len(header)

	var records [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, csvParseError(name, err)
		}
		if len(rec) > ncol {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
		records = append(records, rec)
	}
	return NewTable(name, header, records, opt), nil
}

func csvParseError(name string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Path: name, Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Path: name, Err: err}
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
