package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound indicates the input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrParse indicates the input exists but is not a readable table.
	ErrParse = errors.New("parse error")
	// ErrMissingColumn indicates a referenced column is absent from the table.
	ErrMissingColumn = errors.New("missing column")
)

// ParseError describes malformed input. Line is 1-based and 0 when unknown.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// MissingColumnError names the column that could not be resolved.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("column %q not found", e.Column)
	}
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }
