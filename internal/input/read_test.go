package input

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/tomoya55/jlcat/internal/jval"
)

func TestSniffFormat(t *testing.T) {
	data := []struct {
		name string
		in   string
		want Format
	}{
		{"lines", `{"a":1}`, FormatLines},
		{"array", `[{"a":1}]`, FormatArray},
		{"array after whitespace", "  \n\t[1]", FormatArray},
		{"empty", "", FormatLines},
		{"whitespace only", "  \n ", FormatLines},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			got, err := SniffFormat(bufio.NewReader(strings.NewReader(line.in)))
			if err != nil {
				t.Fatal(err)
			}
			if got != line.want {
				t.Fatalf("got %v, want %v", got, line.want)
			}
		})
	}
}

func TestReadAllLines(t *testing.T) {
	in := "{\"id\":1}\n\n  \n{\"id\":2}\n{\"id\":3}\n"
	rows, err := ReadAll(strings.NewReader(in), Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if v, _ := rows[2].Get("id"); v.Display() != "3" {
		t.Fatalf("row 2 = %v", rows[2])
	}
}

func TestReadAllStrictReportsLine(t *testing.T) {
	in := "{\"id\":1}\n{bad\n"
	_, err := ReadAll(strings.NewReader(in), Options{Strict: true})
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("err = %v, want RowError", err)
	}
	if rowErr.Line != 2 {
		t.Fatalf("line = %d, want 2", rowErr.Line)
	}
}

func TestReadAllLenientSkips(t *testing.T) {
	in := "{\"id\":1}\n{bad\n42\n{\"id\":2}\n"
	rows, err := ReadAll(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestReadAllStrictNonObject(t *testing.T) {
	_, err := ReadAll(strings.NewReader("[1,2]\n"), Options{Strict: true})
	// A leading '[' sniffs as a JSON array whose elements are not objects.
	if err == nil {
		t.Fatal("want error for non-object rows")
	}
	_, err = ReadAll(strings.NewReader("42\n"), Options{Strict: true})
	if !errors.Is(err, ErrNotObject) {
		t.Fatalf("err = %v, want ErrNotObject", err)
	}
}

func TestReadAllWindow(t *testing.T) {
	in := "{\"id\":1}\n{\"id\":2}\n{\"id\":3}\n{\"id\":4}\n{\"id\":5}\n"
	ids := func(rows []jval.Value) []string {
		out := make([]string, len(rows))
		for i, row := range rows {
			v, _ := row.Get("id")
			out[i] = v.Display()
		}
		return out
	}

	t.Run("skip", func(t *testing.T) {
		rows, err := ReadAll(strings.NewReader(in), Options{Skip: 3})
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(rows); len(got) != 2 || got[0] != "4" {
			t.Fatalf("got %v, want [4 5]", got)
		}
	})
	t.Run("limit", func(t *testing.T) {
		rows, err := ReadAll(strings.NewReader(in), Options{Limit: 2})
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(rows); len(got) != 2 || got[1] != "2" {
			t.Fatalf("got %v, want [1 2]", got)
		}
	})
	t.Run("skip then limit", func(t *testing.T) {
		rows, err := ReadAll(strings.NewReader(in), Options{Skip: 1, Limit: 2})
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(rows); len(got) != 2 || got[0] != "2" || got[1] != "3" {
			t.Fatalf("got %v, want [2 3]", got)
		}
	})
	t.Run("tail", func(t *testing.T) {
		rows, err := ReadAll(strings.NewReader(in), Options{Tail: 2})
		if err != nil {
			t.Fatal(err)
		}
		if got := ids(rows); len(got) != 2 || got[0] != "4" || got[1] != "5" {
			t.Fatalf("got %v, want [4 5]", got)
		}
	})
}

func TestReadAllArray(t *testing.T) {
	in := `[ {"id":1}, {"id":2} ]`
	rows, err := ReadAll(strings.NewReader(in), Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if v, _ := rows[1].Get("id"); v.Display() != "2" {
		t.Fatalf("row 1 = %v", rows[1])
	}
}

func TestReadAllArrayLenientNonObject(t *testing.T) {
	in := `[{"id":1}, 42, {"id":2}]`
	rows, err := ReadAll(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}

func TestReadAllEmpty(t *testing.T) {
	rows, err := ReadAll(strings.NewReader(""), Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
}
