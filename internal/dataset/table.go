// Package dataset provides the inputs of the analyses: synthetic normal
// samples and CSV tables with named columns.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soltixdb/eda/internal/analytics/summary"
)

// ErrMissingColumn is returned when a required column is absent.
// Errors carrying it also match summary.ErrInvalidInput.
var ErrMissingColumn = errors.New("missing column")

// Table is a CSV file held in memory, addressed by column name.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// LoadTable reads a CSV file with a header row
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses CSV data whose first record is the header
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, summary.InvalidInputf("dataset", "no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{
		header: make([]string, len(header)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := t.index[name]; dup {
			return nil, summary.InvalidInputf("dataset", "duplicate column %q", name)
		}
		t.header[i] = name
		t.index[name] = i
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	t.rows = records
	return t, nil
}

// Columns returns the header names in file order
func (t *Table) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumns returns an error naming the first absent column
func (t *Table) HasColumns(names ...string) error {
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			return fmt.Errorf("dataset must contain the column %q: %w: %w", name, ErrMissingColumn, summary.ErrInvalidInput)
		}
	}
	return nil
}

func (t *Table) column(name string) (int, error) {
	if err := t.HasColumns(name); err != nil {
		return 0, err
	}
	return t.index[name], nil
}

// Strings returns the raw, trimmed cells of a column
func (t *Table) Strings(name string) ([]string, error) {
	col, err := t.column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = strings.TrimSpace(row[col])
	}
	return out, nil
}

// Floats parses a numeric column
func (t *Table) Floats(name string) ([]float64, error) {
	cells, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, summary.TypeMismatchf("dataset", "column %q row %d: %q is not numeric", name, i+1, cell)
		}
		out[i] = v
	}
	return out, nil
}

// Bools parses a boolean column. Only true and false are accepted, in any
// letter case.
func (t *Table) Bools(name string) ([]bool, error) {
	cells, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(cells))
	for i, cell := range cells {
		switch {
		case strings.EqualFold(cell, "true"):
			out[i] = true
		case strings.EqualFold(cell, "false"):
			out[i] = false
		default:
			return nil, summary.TypeMismatchf("dataset", "column %q must be boolean, row %d holds %q", name, i+1, cell)
		}
	}
	return out, nil
}
