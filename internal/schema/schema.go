// Package schema infers tabular column schemas from heterogeneous JSON rows.
//
// Column types merge through a small lattice: Null is the identity (a column
// seen as String and Null stays String), two distinct non-Null types merge to
// Mixed, and Mixed absorbs everything. Column order is first-appearance order
// across the row sequence, never alphabetical.
package schema

import (
	"github.com/tomoya55/jlcat/internal/jval"
)

// ColumnType classifies the merged JSON kind of a column.
type ColumnType uint8

const (
	TypeNull ColumnType = iota
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
	TypeMixed
)

// String returns the lowercase name of the column type.
func (t ColumnType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// TypeOf classifies a single value.
func TypeOf(v jval.Value) ColumnType {
	switch v.Kind() {
	case jval.KindNull:
		return TypeNull
	case jval.KindBool:
		return TypeBool
	case jval.KindNumber:
		return TypeNumber
	case jval.KindString:
		return TypeString
	case jval.KindArray:
		return TypeArray
	case jval.KindObject:
		return TypeObject
	default:
		return TypeMixed
	}
}

// Merge folds another observation into the type.
func (t ColumnType) Merge(other ColumnType) ColumnType {
	switch {
	case t == other:
		return t
	case t == TypeNull:
		return other
	case other == TypeNull:
		return t
	default:
		return TypeMixed
	}
}

// Schema is an ordered, deduplicated column list with merged types and a set
// of columns known to hold nested values in at least one row.
type Schema struct {
	columns []string
	types   map[string]ColumnType
	nested  map[string]struct{}
}

// New returns an empty schema.
func New() *Schema {
	return &Schema{
		types:  make(map[string]ColumnType),
		nested: make(map[string]struct{}),
	}
}

// Columns returns column names in first-appearance order.
func (s *Schema) Columns() []string { return s.columns }

// ColumnType returns the merged type of a column.
func (s *Schema) ColumnType(name string) (ColumnType, bool) {
	t, ok := s.types[name]
	return t, ok
}

// HasNested reports whether the column held an object or array in any row.
func (s *Schema) HasNested(name string) bool {
	_, ok := s.nested[name]
	return ok
}

func (s *Schema) addColumn(name string, t ColumnType) {
	if existing, ok := s.types[name]; ok {
		s.types[name] = existing.Merge(t)
	} else {
		s.columns = append(s.columns, name)
		s.types[name] = t
	}
	if t == TypeObject || t == TypeArray {
		s.nested[name] = struct{}{}
	}
}

// Infer builds a schema from a full scan of rows. Non-object rows contribute
// nothing; the input layer is responsible for rejecting them.
func Infer(rows []jval.Value) *Schema {
	s := New()
	for _, row := range rows {
		InferStreaming(row, s)
	}
	return s
}

// InferStreaming folds one row into an existing schema. Invoked once per row
// in batch order it converges to the same schema as Infer.
func InferStreaming(row jval.Value, s *Schema) {
	obj := row.Obj()
	if obj == nil {
		return
	}
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		s.addColumn(pair.Key, TypeOf(pair.Value))
	}
}
