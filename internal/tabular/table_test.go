package tabular

import (
	"reflect"
	"testing"

	"github.com/tomoya55/jlcat/internal/jval"
)

func TestFromRowsSchemaColumns(t *testing.T) {
	rows := []jval.Value{
		jval.MustParse(`{"id":1,"name":"ann"}`),
		jval.MustParse(`{"id":2,"age":30}`),
	}
	table := FromRows(rows, nil)
	if want := []string{"id", "name", "age"}; !reflect.DeepEqual(table.Columns(), want) {
		t.Fatalf("columns = %v, want %v", table.Columns(), want)
	}
	if got := table.RowCount(); got != 2 {
		t.Fatalf("RowCount = %d, want 2", got)
	}
	// Missing cell resolves to null.
	if v, ok := table.Cell(0, 2); !ok || !v.IsNull() {
		t.Fatalf("row 0 age = %v (%v), want null", v, ok)
	}
	if v, _ := table.Cell(1, 2); v.Display() != "30" {
		t.Fatalf("row 1 age = %v, want 30", v)
	}
}

func TestFromRowsProjection(t *testing.T) {
	rows := []jval.Value{
		jval.MustParse(`{"id":1,"user":{"name":"ann"},"tags":["x","y"]}`),
	}
	sel, err := NewColumnSelector([]string{"user.name", "tags[1]", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	table := FromRows(rows, sel)
	// Output columns keep the caller's literal paths and order.
	if want := []string{"user.name", "tags[1]", "missing"}; !reflect.DeepEqual(table.Columns(), want) {
		t.Fatalf("columns = %v, want %v", table.Columns(), want)
	}
	row, _ := table.Row(0)
	if row[0].Str() != "ann" {
		t.Errorf("user.name = %v, want ann", row[0])
	}
	if row[1].Str() != "y" {
		t.Errorf("tags[1] = %v, want y", row[1])
	}
	if !row[2].IsNull() {
		t.Errorf("missing = %v, want null", row[2])
	}
}

func TestNewColumnSelectorBadPath(t *testing.T) {
	if _, err := NewColumnSelector([]string{"a[", "b"}); err == nil {
		t.Fatal("expected compile error for malformed bracket")
	}
}

func TestSelectPairs(t *testing.T) {
	sel, err := NewColumnSelector([]string{"b", "a"})
	if err != nil {
		t.Fatal(err)
	}
	got := sel.Select(jval.MustParse(`{"a":1,"b":2}`))
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "b" || got[0].Value.Display() != "2" {
		t.Errorf("first = %+v, want b=2", got[0])
	}
	if got[1].Name != "a" || got[1].Value.Display() != "1" {
		t.Errorf("second = %+v, want a=1", got[1])
	}
}

func TestCellBounds(t *testing.T) {
	table := FromRows([]jval.Value{jval.MustParse(`{"a":1}`)}, nil)
	if _, ok := table.Cell(1, 0); ok {
		t.Error("row out of range should miss")
	}
	if _, ok := table.Cell(0, 5); ok {
		t.Error("col out of range should miss")
	}
	if _, ok := table.Row(-1); ok {
		t.Error("negative row should miss")
	}
}
