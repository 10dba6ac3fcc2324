package schema

import (
	"encoding/json"
	"testing"

	"github.com/tomoya55/jlcat/internal/jval"
)

func rows(t *testing.T, lines ...string) []jval.Value {
	t.Helper()
	out := make([]jval.Value, 0, len(lines))
	for _, l := range lines {
		out = append(out, jval.MustParse(l))
	}
	return out
}

func TestInferColumnOrder(t *testing.T) {
	s := Infer(rows(t,
		`{"id": 1, "name": "Alice"}`,
		`{"id": 2, "name": "Bob", "age": 30}`,
	))
	want := []string{"id", "name", "age"}
	got := s.Columns()
	if len(got) != len(want) {
		t.Fatalf("Columns() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestInferNestedFlag(t *testing.T) {
	s := Infer(rows(t, `{"id": 1, "address": {"city": "Tokyo"}, "tags": ["a"]}`))
	if !s.HasNested("address") {
		t.Error("address not flagged nested")
	}
	if !s.HasNested("tags") {
		t.Error("tags not flagged nested")
	}
	if s.HasNested("id") {
		t.Error("id flagged nested")
	}
}

func TestTypeLattice(t *testing.T) {
	tests := []struct {
		name string
		a, b ColumnType
		want ColumnType
	}{
		{"identity", TypeString, TypeString, TypeString},
		{"null left identity", TypeNull, TypeNumber, TypeNumber},
		{"null right identity", TypeBool, TypeNull, TypeBool},
		{"distinct to mixed", TypeNumber, TypeString, TypeMixed},
		{"mixed absorbs", TypeMixed, TypeNumber, TypeMixed},
		{"mixed absorbs null", TypeMixed, TypeNull, TypeMixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Merge(tt.b); got != tt.want {
				t.Errorf("%v.Merge(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestInferColumnTypes(t *testing.T) {
	s := Infer(rows(t,
		`{"id": 1, "name": "Alice", "active": true}`,
		`{"id": 2, "name": null, "active": false}`,
	))
	tests := []struct {
		col  string
		want ColumnType
	}{
		{"id", TypeNumber},
		// String + Null stays String (nullable), not Mixed.
		{"name", TypeString},
		{"active", TypeBool},
	}
	for _, tt := range tests {
		if got, ok := s.ColumnType(tt.col); !ok || got != tt.want {
			t.Errorf("ColumnType(%q) = %v, %v; want %v", tt.col, got, ok, tt.want)
		}
	}
}

func TestInferMixedTypes(t *testing.T) {
	s := Infer(rows(t, `{"value": 1}`, `{"value": "string"}`))
	if got, _ := s.ColumnType("value"); got != TypeMixed {
		t.Errorf("ColumnType(value) = %v, want mixed", got)
	}
}

func TestStreamingMatchesBatch(t *testing.T) {
	lines := []string{
		`{"id": 1, "name": "Alice"}`,
		`{"id": 2, "age": 30}`,
		`{"id": "three", "name": null, "nested": {"a": 1}}`,
	}
	batch := Infer(rows(t, lines...))

	streaming := New()
	for _, r := range rows(t, lines...) {
		InferStreaming(r, streaming)
	}

	bc, sc := batch.Columns(), streaming.Columns()
	if len(bc) != len(sc) {
		t.Fatalf("streaming has %d columns, batch has %d", len(sc), len(bc))
	}
	for i := range bc {
		if bc[i] != sc[i] {
			t.Errorf("column[%d]: streaming %q, batch %q", i, sc[i], bc[i])
		}
		bt, _ := batch.ColumnType(bc[i])
		st, _ := streaming.ColumnType(sc[i])
		if bt != st {
			t.Errorf("type of %q: streaming %v, batch %v", bc[i], st, bt)
		}
		if batch.HasNested(bc[i]) != streaming.HasNested(sc[i]) {
			t.Errorf("nested flag of %q differs", bc[i])
		}
	}
}

func TestInferSkipsNonObjectRows(t *testing.T) {
	s := Infer(rows(t, `[1, 2]`, `{"a": 1}`))
	if len(s.Columns()) != 1 || s.Columns()[0] != "a" {
		t.Errorf("Columns() = %v, want [a]", s.Columns())
	}
}

func TestToJSONSchema(t *testing.T) {
	s := Infer(rows(t,
		`{"id": 1, "name": "Alice", "meta": {"a": 1}, "v": 1}`,
		`{"id": 2, "name": null, "v": "x"}`,
	))
	js := ToJSONSchema(s)
	if js.Type != "object" {
		t.Fatalf("Type = %q, want object", js.Type)
	}

	b, err := json.Marshal(js)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	tests := []struct {
		col  string
		want string
	}{
		{"id", "number"},
		{"name", "string"},
		{"meta", "object"},
		{"v", ""}, // mixed: no type constraint
	}
	for _, tt := range tests {
		got, ok := decoded.Properties[tt.col]
		if !ok {
			t.Errorf("property %q missing", tt.col)
			continue
		}
		if got.Type != tt.want {
			t.Errorf("property %q type = %q, want %q", tt.col, got.Type, tt.want)
		}
	}
}
