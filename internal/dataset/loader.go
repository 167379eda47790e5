package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Loader reads one input format into a Table.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load selects a loader by file name and reads the table. Paths no loader
// claims are read as delimited text.
func Load(path string, opt Options) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if info.IsDir() {
		return nil, &ParseError{Path: path, Err: errors.New("is a directory")}
	}
	for _, l := range registry {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return LoadCSV(path, opt)
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
