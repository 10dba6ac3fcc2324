package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomoya55/jlcat/internal/jval"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune(s)})
}

func testRows(t *testing.T) []jval.Value {
	t.Helper()
	return []jval.Value{
		jval.MustParse(`{"id":1,"name":"carol"}`),
		jval.MustParse(`{"id":2,"name":"alice"}`),
		jval.MustParse(`{"id":3,"name":"bob"}`),
	}
}

func TestModelShowsAllRows(t *testing.T) {
	m := New(testRows(t), nil, nil)
	if got := m.VisibleCount(); got != 3 {
		t.Fatalf("VisibleCount = %d, want 3", got)
	}
	if !strings.Contains(m.View(), "carol") {
		t.Fatal("view missing row data")
	}
}

func TestModelSearchPrompt(t *testing.T) {
	m := New(testRows(t), nil, nil)

	next, _ := m.Update(keyRunes("/"))
	m = next.(Model)
	for _, r := range "ali" {
		next, _ = m.Update(keyRunes(string(r)))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEnter}))
	m = next.(Model)

	if got := m.VisibleCount(); got != 1 {
		t.Fatalf("VisibleCount = %d, want 1", got)
	}
	row, ok := m.SelectedRow()
	if !ok {
		t.Fatal("no selected row")
	}
	if v, _ := row.Get("name"); v.Str() != "alice" {
		t.Fatalf("selected = %v, want alice", row)
	}
}

func TestModelFilterPrompt(t *testing.T) {
	m := New(testRows(t), nil, nil)

	next, _ := m.Update(keyRunes("f"))
	m = next.(Model)
	for _, r := range "id>1" {
		next, _ = m.Update(keyRunes(string(r)))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEnter}))
	m = next.(Model)

	if got := m.VisibleCount(); got != 2 {
		t.Fatalf("VisibleCount = %d, want 2", got)
	}
}

func TestModelBadFilterKeepsRows(t *testing.T) {
	m := New(testRows(t), nil, nil)

	next, _ := m.Update(keyRunes("f"))
	m = next.(Model)
	for _, r := range "nonsense" {
		next, _ = m.Update(keyRunes(string(r)))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEnter}))
	m = next.(Model)

	if got := m.VisibleCount(); got != 3 {
		t.Fatalf("VisibleCount = %d, want 3", got)
	}
	if !strings.Contains(m.View(), "error:") {
		t.Fatal("view should surface the filter error")
	}
}

func TestModelEscClearsPredicates(t *testing.T) {
	m := New(testRows(t), nil, nil)

	next, _ := m.Update(keyRunes("/"))
	m = next.(Model)
	for _, r := range "ali" {
		next, _ = m.Update(keyRunes(string(r)))
		m = next.(Model)
	}
	next, _ = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEnter}))
	m = next.(Model)
	if got := m.VisibleCount(); got != 1 {
		t.Fatalf("VisibleCount after search = %d, want 1", got)
	}

	next, cmd := m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEsc}))
	m = next.(Model)
	if cmd != nil {
		t.Fatal("esc with an active search should not quit")
	}
	if got := m.VisibleCount(); got != 3 {
		t.Fatalf("VisibleCount after esc = %d, want 3", got)
	}

	_, cmd = m.Update(tea.KeyMsg(tea.Key{Type: tea.KeyEsc}))
	if cmd == nil {
		t.Fatal("esc with nothing to clear should quit")
	}
}

func TestModelSortCycle(t *testing.T) {
	m := New(testRows(t), nil, nil)

	next, _ := m.Update(keyRunes("s"))
	m = next.(Model)
	row, _ := m.SelectedRow()
	if v, _ := row.Get("id"); v.Display() != "1" {
		t.Fatalf("ascending first row id = %v, want 1", v)
	}

	next, _ = m.Update(keyRunes("s"))
	m = next.(Model)
	row, _ = m.SelectedRow()
	if v, _ := row.Get("id"); v.Display() != "3" {
		t.Fatalf("descending first row id = %v, want 3", v)
	}

	// Third press returns to input order.
	next, _ = m.Update(keyRunes("s"))
	m = next.(Model)
	row, _ = m.SelectedRow()
	if v, _ := row.Get("id"); v.Display() != "1" {
		t.Fatalf("unsorted first row id = %v, want 1", v)
	}
}

func TestModelReload(t *testing.T) {
	loaded := []jval.Value{jval.MustParse(`{"id":1}`)}
	loader := func() ([]jval.Value, error) {
		return []jval.Value{
			jval.MustParse(`{"id":1}`),
			jval.MustParse(`{"id":2}`),
		}, nil
	}
	m := New(loaded, loader, nil)

	next, _ := m.Update(keyRunes("r"))
	m = next.(Model)
	if got := m.VisibleCount(); got != 2 {
		t.Fatalf("VisibleCount = %d, want 2", got)
	}
}
