package loader

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
)

// Table is a loaded input file: column name to a typed series, one row per record.
type Table struct {
	name string
	df   dataframe.DataFrame
}

// NewTable wraps an in-memory dataframe, mostly for tests and generators.
func NewTable(name string, df dataframe.DataFrame) *Table {
	return &Table{name: name, df: df}
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Len() int {
	return t.df.Nrow()
}

func (t *Table) Columns() []string {
	return t.df.Names()
}

func (t *Table) HasColumn(name string) bool {
	for _, col := range t.df.Names() {
		if col == name {
			return true
		}
	}
	return false
}

func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is missing columns %v", ErrDataUnavailable, t.name, missing)
	}
	return nil
}

func (t *Table) Strings(col string) ([]string, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: column %q not found", ErrDataUnavailable, col)
	}
	return t.df.Col(col).Records(), nil
}

// Ints returns the column as integers. Empty, non-numeric and fractional
// cells make it fail.
func (t *Table) Ints(col string) ([]int, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: column %q not found", ErrDataUnavailable, col)
	}
	floats := t.df.Col(col).Float()
	values := make([]int, len(floats))
	for i, f := range floats {
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, fmt.Errorf("column %q row %d: %q is not an integer", col, i+1, t.df.Col(col).Elem(i).String())
		}
		values[i] = int(f)
	}
	return values, nil
}

// Floats returns the column as float64; unparsable cells become NaN.
func (t *Table) Floats(col string) ([]float64, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: column %q not found", ErrDataUnavailable, col)
	}
	return t.df.Col(col).Float(), nil
}

func (t *Table) DataFrame() dataframe.DataFrame {
	return t.df
}
