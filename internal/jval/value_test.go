package jval

import (
	"testing"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	v := MustParse(`{"zebra": 1, "apple": 2, "mango": 3}`)
	if v.Kind() != KindObject {
		t.Fatalf("Kind() = %v, want object", v.Kind())
	}
	var keys []string
	for pair := v.Obj().Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	want := []string{"zebra", "apple", "mango"}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestParseNumberLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`30`, "30"},
		{`30.0`, "30.0"},
		{`-1.5e3`, "-1.5e3"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v := MustParse(tt.input)
			if got := v.Number().String(); got != tt.want {
				t.Errorf("Number() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	if _, err := Parse([]byte(`{"a": 1} extra`)); err == nil {
		t.Error("Parse accepted trailing data")
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	for _, input := range []string{``, `{`, `{"a":}`, `[1,]`} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestDuplicateKeysKeepFirstPosition(t *testing.T) {
	v := MustParse(`{"a": 1, "b": 2, "a": 3}`)
	if v.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", v.Len())
	}
	first := v.Obj().Oldest()
	if first.Key != "a" {
		t.Errorf("first key = %q, want a", first.Key)
	}
	got, _ := v.Get("a")
	if got.Number() != "3" {
		t.Errorf("a = %s, want 3 (last duplicate wins)", got.Number())
	}
}

func TestValueAccessors(t *testing.T) {
	v := MustParse(`{"b": true, "n": 1.5, "s": "x", "a": [1, 2], "o": {"k": null}}`)

	b, ok := v.Get("b")
	if !ok || !b.Bool() {
		t.Errorf("b = %v, %v; want true", b, ok)
	}
	n, _ := v.Get("n")
	if f, ok := n.Float64(); !ok || f != 1.5 {
		t.Errorf("n.Float64() = %v, %v; want 1.5", f, ok)
	}
	s, _ := v.Get("s")
	if s.Str() != "x" {
		t.Errorf("s = %q, want x", s.Str())
	}
	a, _ := v.Get("a")
	if a.Len() != 2 {
		t.Errorf("a.Len() = %d, want 2", a.Len())
	}
	if el, ok := a.Index(1); !ok || el.Number() != "2" {
		t.Errorf("a[1] = %v, want 2", el)
	}
	if _, ok := a.Index(5); ok {
		t.Error("a[5] resolved, want out of bounds")
	}
	o, _ := v.Get("o")
	if k, ok := o.Get("k"); !ok || !k.IsNull() {
		t.Errorf("o.k = %v, want null", k)
	}
	if _, ok := v.Get("missing"); ok {
		t.Error("missing key resolved")
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() || v.Kind() != KindNull {
		t.Errorf("zero Value is %v, want null", v.Kind())
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`null`, "null"},
		{`true`, "true"},
		{`false`, "false"},
		{`42`, "42"},
		{`3.14`, "3.14"},
		{`"hello"`, "hello"},
		{`[1, 2]`, "[...]"},
		{`{"a": 1}`, "{...}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MustParse(tt.input).Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarshalJSONRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`30.0`,
		`"hi there"`,
		`[1,"two",null,{"a":false}]`,
		`{"z":1,"a":[{"b":2}],"m":"x"}`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			b, err := MustParse(input).MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON failed: %v", err)
			}
			if string(b) != input {
				t.Errorf("MarshalJSON = %s, want %s", b, input)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same object", `{"a":1,"b":2}`, `{"a":1,"b":2}`, true},
		{"different key order", `{"a":1,"b":2}`, `{"b":2,"a":1}`, false},
		{"numeric literal variants", `1.0`, `1`, true},
		{"different numbers", `1`, `2`, false},
		{"kind mismatch", `"1"`, `1`, false},
		{"nested arrays", `[[1,2],[3]]`, `[[1,2],[3]]`, true},
		{"array length", `[1]`, `[1,2]`, false},
		{"nulls", `null`, `null`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(MustParse(tt.a), MustParse(tt.b)); got != tt.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
