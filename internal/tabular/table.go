// Package tabular turns schema-less JSON rows into tabular views: plain
// projection (TableData), dot-notation flattening of nested structures
// (FlatTableData), and extraction of nested objects/arrays into child tables.
package tabular

import (
	"github.com/tomoya55/jlcat/internal/jval"
	"github.com/tomoya55/jlcat/internal/schema"
)

// TableData is a columns + row-major cell matrix view over a row set.
// Path-resolution misses materialize as Null cells.
type TableData struct {
	columns []string
	rows    [][]jval.Value
	schema  *schema.Schema
}

// FromRows builds a table from rows. With a selector, columns are the
// caller's literal path strings in the caller's order; otherwise they are the
// inferred schema columns in first-appearance order.
func FromRows(rows []jval.Value, selector *ColumnSelector) *TableData {
	s := schema.Infer(rows)

	var columns []string
	if selector != nil {
		columns = selector.Columns()
	} else {
		columns = s.Columns()
	}

	cells := make([][]jval.Value, len(rows))
	if selector != nil {
		for i, row := range rows {
			cells[i] = selector.SelectValues(row)
		}
	} else {
		paths := make([]*compiledColumn, len(columns))
		for j, col := range columns {
			paths[j] = newCompiledColumn(col)
		}
		for i, row := range rows {
			out := make([]jval.Value, len(columns))
			for j := range columns {
				out[j] = paths[j].get(row)
			}
			cells[i] = out
		}
	}

	return &TableData{columns: columns, rows: cells, schema: s}
}

// Columns returns the column names in display order.
func (t *TableData) Columns() []string { return t.columns }

// Rows returns the row-major cell matrix.
func (t *TableData) Rows() [][]jval.Value { return t.rows }

// RowCount returns the number of rows.
func (t *TableData) RowCount() int { return len(t.rows) }

// ColumnCount returns the number of columns.
func (t *TableData) ColumnCount() int { return len(t.columns) }

// Cell returns the value at (row, col).
func (t *TableData) Cell(row, col int) (jval.Value, bool) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return jval.Null, false
	}
	return t.rows[row][col], true
}

// Row returns one row of cells.
func (t *TableData) Row(i int) ([]jval.Value, bool) {
	if i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i], true
}

// Schema returns the inferred schema.
func (t *TableData) Schema() *schema.Schema { return t.schema }

// IsEmpty reports whether the table has no rows.
func (t *TableData) IsEmpty() bool { return len(t.rows) == 0 }
