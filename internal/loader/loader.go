package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

var (
	// ErrDataUnavailable is returned when an input table is missing or malformed.
	ErrDataUnavailable = errors.New("data unavailable")
)

// Reader turns one file format into a dataframe.
type Reader interface {
	Read(path string) (dataframe.DataFrame, error)
}

var readers = map[string]Reader{
	".csv":  csvReader{},
	".xlsx": xlsxReader{},
}

// Load reads the tabular file at path. The reader is picked from the file
// extension; every failure wraps ErrDataUnavailable.
func Load(path string) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrDataUnavailable, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrDataUnavailable, ext)
	}

	df, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, err)
	}
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, path, df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%w: %s has no rows", ErrDataUnavailable, path)
	}

	return &Table{name: filepath.Base(path), df: df}, nil
}

// LoadRequired loads path and checks that every named column is present.
func LoadRequired(path string, columns ...string) (*Table, error) {
	table, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := table.RequireColumns(columns...); err != nil {
		return nil, err
	}
	return table, nil
}
