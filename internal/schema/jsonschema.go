package schema

import (
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ToJSONSchema exports an inferred schema as a draft 2020-12 JSON Schema
// describing one row. Mixed columns carry no type constraint; nullable
// scalars stay typed since Null never degrades a merge.
func ToJSONSchema(s *Schema) *jsonschema.Schema {
	out := &jsonschema.Schema{
		Version:    jsonschema.Version,
		Type:       "object",
		Properties: orderedmap.New[string, *jsonschema.Schema](),
	}
	for _, col := range s.Columns() {
		prop := &jsonschema.Schema{}
		t, _ := s.ColumnType(col)
		switch t {
		case TypeNull:
			prop.Type = "null"
		case TypeBool:
			prop.Type = "boolean"
		case TypeNumber:
			prop.Type = "number"
		case TypeString:
			prop.Type = "string"
		case TypeArray:
			prop.Type = "array"
		case TypeObject:
			prop.Type = "object"
		case TypeMixed:
			// No type constraint for structurally inconsistent columns.
		}
		out.Properties.Set(col, prop)
	}
	return out
}
