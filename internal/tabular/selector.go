package tabular

import (
	"fmt"

	"github.com/tomoya55/jlcat/internal/jpath"
	"github.com/tomoya55/jlcat/internal/jval"
)

// compiledColumn pairs a column's literal name with its compiled path. Schema
// columns can be any literal key, including ones that do not compile as paths
// (empty after a dot, stray bracket); those fall back to plain key lookup.
type compiledColumn struct {
	name string
	path *jpath.Path
}

func newCompiledColumn(name string) *compiledColumn {
	p, err := jpath.Compile(name)
	if err != nil {
		p = nil
	}
	return &compiledColumn{name: name, path: p}
}

func (c *compiledColumn) get(row jval.Value) jval.Value {
	if c.path == nil {
		if v, ok := row.Get(c.name); ok {
			return v
		}
		return jval.Null
	}
	if v, ok := c.path.Get(row); ok {
		return v
	}
	return jval.Null
}

// ColumnSelector projects rows onto a caller-chosen list of paths. Output
// columns keep the caller's order and literal names even when a path resolves
// through nested traversal.
type ColumnSelector struct {
	columns []compiledColumn
}

// NewColumnSelector compiles the column paths up front so syntax errors
// surface immediately instead of silently projecting nothing.
func NewColumnSelector(columns []string) (*ColumnSelector, error) {
	compiled := make([]compiledColumn, len(columns))
	for i, col := range columns {
		p, err := jpath.Compile(col)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		compiled[i] = compiledColumn{name: col, path: p}
	}
	return &ColumnSelector{columns: compiled}, nil
}

// Columns returns the literal column names in selection order.
func (s *ColumnSelector) Columns() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.name
	}
	return out
}

// SelectedColumn is one projected cell with its literal column name.
type SelectedColumn struct {
	Name  string
	Value jval.Value
}

// Select projects a row as (name, value) pairs; misses resolve to Null.
func (s *ColumnSelector) Select(row jval.Value) []SelectedColumn {
	out := make([]SelectedColumn, len(s.columns))
	for i, c := range s.columns {
		out[i] = SelectedColumn{Name: c.name, Value: c.get(row)}
	}
	return out
}

// SelectValues projects a row as a value slice in selection order.
func (s *ColumnSelector) SelectValues(row jval.Value) []jval.Value {
	out := make([]jval.Value, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.get(row)
	}
	return out
}
