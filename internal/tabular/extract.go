package tabular

import (
	"github.com/tomoya55/jlcat/internal/jval"
)

// ValueColumn is the reserved child-table column holding primitive array
// elements.
const ValueColumn = "value"

// ParentColumn is the synthesized column linking a child row back to its
// parent row index.
const ParentColumn = "_parent_row"

// ChildRow is one extracted nested element plus the index of the row it came
// from.
type ChildRow struct {
	Parent int
	Values []jval.Value
}

// ChildTable collects the nested objects or array elements of one field path.
// Its column set grows as new keys are discovered; rows recorded earlier are
// padded with null so every row always spans the full column list.
type ChildTable struct {
	name     string
	columns  []string
	colIndex map[string]int
	rows     []ChildRow
}

func newChildTable(name string) *ChildTable {
	return &ChildTable{name: name, colIndex: make(map[string]int)}
}

// Name returns the (possibly dotted) field path this table was extracted
// from.
func (t *ChildTable) Name() string { return t.name }

// Columns returns the discovered columns in first-appearance order.
func (t *ChildTable) Columns() []string { return t.columns }

// Rows returns the extracted rows. Every Values slice has the same length as
// Columns.
func (t *ChildTable) Rows() []ChildRow { return t.rows }

// RowCount returns the number of extracted rows.
func (t *ChildTable) RowCount() int { return len(t.rows) }

// IsEmpty reports whether the table has no rows.
func (t *ChildTable) IsEmpty() bool { return len(t.rows) == 0 }

// ColumnsWithParent returns the column list with the parent-link column
// prepended, ready for rendering.
func (t *ChildTable) ColumnsWithParent() []string {
	out := make([]string, 0, len(t.columns)+1)
	out = append(out, ParentColumn)
	return append(out, t.columns...)
}

// RowsWithParent returns the row-major cell matrix with each row's parent
// index prepended as a numeric cell.
func (t *ChildTable) RowsWithParent() [][]jval.Value {
	out := make([][]jval.Value, len(t.rows))
	for i, row := range t.rows {
		cells := make([]jval.Value, 0, len(row.Values)+1)
		cells = append(cells, jval.IntValue(row.Parent))
		out[i] = append(cells, row.Values...)
	}
	return out
}

func (t *ChildTable) column(name string) int {
	if idx, ok := t.colIndex[name]; ok {
		return idx
	}
	idx := len(t.columns)
	t.columns = append(t.columns, name)
	t.colIndex[name] = idx
	for i := range t.rows {
		t.rows[i].Values = append(t.rows[i].Values, jval.Null)
	}
	return idx
}

// addObject appends one row built from an object's keys and returns its row
// index within the table.
func (t *ChildTable) addObject(parent int, obj jval.Value) int {
	values := make([]jval.Value, len(t.columns))
	row := len(t.rows)
	t.rows = append(t.rows, ChildRow{Parent: parent, Values: values})
	for pair := obj.Obj().Oldest(); pair != nil; pair = pair.Next() {
		idx := t.column(pair.Key)
		t.rows[row].Values[idx] = pair.Value
	}
	return row
}

// addPrimitive appends one row holding a non-object array element in the
// reserved value column and returns its row index.
func (t *ChildTable) addPrimitive(parent int, v jval.Value) int {
	values := make([]jval.Value, len(t.columns))
	row := len(t.rows)
	t.rows = append(t.rows, ChildRow{Parent: parent, Values: values})
	idx := t.column(ValueColumn)
	t.rows[row].Values[idx] = v
	return row
}

func (t *ChildTable) setCell(row, col int, v jval.Value) {
	t.rows[row].Values[col] = v
}

// Extract pulls each row's top-level nested fields into child tables keyed by
// field path. Object fields yield one child row; array fields yield one child
// row per element, with primitive elements landing in the value column.
func Extract(rows []jval.Value) map[string]*ChildTable {
	tables := make(map[string]*ChildTable)
	for i, row := range rows {
		obj := row.Obj()
		if obj == nil {
			continue
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			extractField(tables, pair.Key, i, pair.Value, false)
		}
	}
	return tables
}

// ExtractRecursive extracts like Extract, then keeps going: nested fields
// inside extracted objects and array elements recurse into further child
// tables named by the dotted path, and the cell at the shallower level is
// replaced by its placeholder. A deeper row's parent index refers to its row
// position within the immediate parent table.
func ExtractRecursive(rows []jval.Value) map[string]*ChildTable {
	tables := make(map[string]*ChildTable)
	for i, row := range rows {
		obj := row.Obj()
		if obj == nil {
			continue
		}
		for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
			extractField(tables, pair.Key, i, pair.Value, true)
		}
	}
	return tables
}

func extractField(tables map[string]*ChildTable, path string, parent int, v jval.Value, recursive bool) {
	switch v.Kind() {
	case jval.KindObject:
		t := table(tables, path)
		row := t.addObject(parent, v)
		if recursive {
			recurseRow(tables, t, path, row, v)
		}
	case jval.KindArray:
		t := table(tables, path)
		for _, item := range v.Items() {
			if item.Kind() == jval.KindObject {
				row := t.addObject(parent, item)
				if recursive {
					recurseRow(tables, t, path, row, item)
				}
				continue
			}
			row := t.addPrimitive(parent, item)
			if recursive && item.Kind() == jval.KindArray {
				idx := t.column(ValueColumn)
				t.setCell(row, idx, FlattenValue(item))
			}
		}
	}
}

// recurseRow extracts the nested fields of an already-extracted object into
// deeper tables and overwrites the shallow cells with placeholders.
func recurseRow(tables map[string]*ChildTable, t *ChildTable, path string, row int, obj jval.Value) {
	for pair := obj.Obj().Oldest(); pair != nil; pair = pair.Next() {
		k := pair.Value.Kind()
		if k != jval.KindObject && k != jval.KindArray {
			continue
		}
		extractField(tables, path+"."+pair.Key, row, pair.Value, true)
		t.setCell(row, t.colIndex[pair.Key], FlattenValue(pair.Value))
	}
}

func table(tables map[string]*ChildTable, path string) *ChildTable {
	if t, ok := tables[path]; ok {
		return t
	}
	t := newChildTable(path)
	tables[path] = t
	return t
}

// FlattenValue replaces a nested value with its placeholder and passes
// scalars through.
func FlattenValue(v jval.Value) jval.Value {
	switch v.Kind() {
	case jval.KindObject:
		return jval.StringValue(objectPlaceholder)
	case jval.KindArray:
		return jval.StringValue(arrayPlaceholder)
	default:
		return v
	}
}

// FlattenRow returns a copy of a row object with every top-level nested field
// replaced by its placeholder. Non-object rows pass through unchanged.
func FlattenRow(row jval.Value) jval.Value {
	obj := row.Obj()
	if obj == nil {
		return row
	}
	out := jval.NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, FlattenValue(pair.Value))
	}
	return jval.ObjectValue(out)
}
