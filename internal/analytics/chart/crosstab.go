package chart

import (
	"sort"
)

// CrossTab counts co-occurrences of two categorical variables.
// Counts[i][j] is the number of observations with row label Rows[i] and
// column label Columns[j]. Labels are sorted; missing pairs count zero.
type CrossTab struct {
	RowName    string   `json:"row_name"`
	ColumnName string   `json:"column_name"`
	Rows       []string `json:"rows"`
	Columns    []string `json:"columns"`
	Counts     [][]int  `json:"counts"`
}

// NewCrossTab builds a cross tabulation from paired observations
func NewCrossTab(rowName, columnName string, rowValues, columnValues []string) (*CrossTab, error) {
	if len(rowValues) != len(columnValues) {
		return nil, invalid("crosstab", "row and column observations differ in length: %d vs %d", len(rowValues), len(columnValues))
	}

	rows := distinctSorted(rowValues)
	cols := distinctSorted(columnValues)
	rowIdx := indexOf(rows)
	colIdx := indexOf(cols)

	counts := make([][]int, len(rows))
	for i := range counts {
		counts[i] = make([]int, len(cols))
	}
	for i := range rowValues {
		counts[rowIdx[rowValues[i]]][colIdx[columnValues[i]]]++
	}

	return &CrossTab{
		RowName:    rowName,
		ColumnName: columnName,
		Rows:       rows,
		Columns:    cols,
		Counts:     counts,
	}, nil
}

// Count returns the count for a row/column label pair
func (t *CrossTab) Count(row, column string) int {
	for i, r := range t.Rows {
		if r != row {
			continue
		}
		for j, c := range t.Columns {
			if c == column {
				return t.Counts[i][j]
			}
		}
	}
	return 0
}

// Total returns the number of observations
func (t *CrossTab) Total() int {
	total := 0
	for _, row := range t.Counts {
		for _, c := range row {
			total += c
		}
	}
	return total
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func indexOf(labels []string) map[string]int {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		idx[l] = i
	}
	return idx
}
