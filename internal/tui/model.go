// Package tui is the interactive table viewer: cursor navigation, full-text
// search, filter expressions, per-column sorting and live reload of the
// source file.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomoya55/jlcat/internal/input"
	"github.com/tomoya55/jlcat/internal/jval"
	"github.com/tomoya55/jlcat/internal/query"
	"github.com/tomoya55/jlcat/internal/schema"
)

const (
	maxColumnWidth = 40
	minColumnWidth = 4
)

// Loader re-reads the source rows, used for manual and watch-driven reloads.
type Loader func() ([]jval.Value, error)

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptFilter
)

// sortState cycles none -> ascending -> descending per column.
type sortState int

const (
	sortNone sortState = iota
	sortAsc
	sortDesc
)

type reloadMsg struct{}

type watchClosedMsg struct{}

// Model is the bubbletea model for the viewer.
type Model struct {
	rows    []jval.Value // full loaded row set
	visible []int        // indexes into rows after filter/search/sort

	table  table.Model
	prompt textinput.Model
	mode   promptKind

	filter *query.FilterExpr
	search *query.FullTextSearch

	sortCol   int
	sortState sortState

	loader  Loader
	watcher *input.Watcher

	status string
	err    error
	width  int
	height int
}

// New builds the viewer over an initial row set. loader and watcher may be
// nil (stdin sources cannot reload).
func New(rows []jval.Value, loader Loader, watcher *input.Watcher) Model {
	prompt := textinput.New()
	prompt.Prompt = "> "
	prompt.CharLimit = 256

	m := Model{
		rows:    rows,
		prompt:  prompt,
		loader:  loader,
		watcher: watcher,
		height:  24,
		width:   80,
	}
	m.rebuild()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForChange(m.watcher)
}

func waitForChange(w *input.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return watchClosedMsg{}
		}
		return reloadMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuild()
		return m, nil

	case reloadMsg:
		m.reload()
		return m, waitForChange(m.watcher)

	case watchClosedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.mode != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateTable(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.applyPrompt()
		return m, nil
	case "esc":
		m.mode = promptNone
		m.prompt.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) applyPrompt() {
	text := strings.TrimSpace(m.prompt.Value())
	switch m.mode {
	case promptSearch:
		if text == "" {
			m.search = nil
			m.status = ""
		} else {
			m.search = query.NewFullTextSearch(text)
			m.status = fmt.Sprintf("search: %s", text)
		}
		m.err = nil
	case promptFilter:
		if text == "" {
			m.filter = nil
			m.status = ""
			m.err = nil
		} else if f, err := query.ParseFilter(text); err != nil {
			m.err = err
		} else {
			m.filter = f
			m.status = fmt.Sprintf("filter: %s", text)
			m.err = nil
		}
	}
	m.mode = promptNone
	m.prompt.Blur()
	m.rebuild()
}

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Esc clears active predicates before it quits.
		if m.filter != nil || m.search != nil {
			m.filter = nil
			m.search = nil
			m.status = ""
			m.err = nil
			m.rebuild()
			return m, nil
		}
		fallthrough
	case "q", "ctrl+c":
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
		return m, tea.Quit
	case "/":
		return m.openPrompt(promptSearch)
	case "f":
		return m.openPrompt(promptFilter)
	case "s":
		m.cycleSort()
		return m, nil
	case "left", "h":
		if m.sortCol > 0 {
			m.sortCol--
		}
		return m, nil
	case "right", "l":
		if m.sortCol < len(m.columns())-1 {
			m.sortCol++
		}
		return m, nil
	case "r":
		m.reload()
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) openPrompt(kind promptKind) (tea.Model, tea.Cmd) {
	m.mode = kind
	m.prompt.SetValue("")
	return m, m.prompt.Focus()
}

func (m *Model) cycleSort() {
	m.sortState = (m.sortState + 1) % 3
	m.rebuild()
}

func (m *Model) reload() {
	if m.loader == nil {
		return
	}
	rows, err := m.loader()
	if err != nil {
		m.err = err
		return
	}
	m.rows = rows
	m.err = nil
	m.status = fmt.Sprintf("reloaded %d rows", len(rows))
	m.rebuild()
}

func (m *Model) columns() []string {
	return schema.Infer(m.rows).Columns()
}

// rebuild recomputes the visible index set (filter, search, sort) and feeds
// the bubbles table.
func (m *Model) rebuild() {
	columns := m.columns()
	if m.sortCol >= len(columns) {
		m.sortCol = 0
	}

	m.visible = m.visible[:0]
	for i, row := range m.rows {
		if m.filter != nil && !m.filter.Matches(row) {
			continue
		}
		if m.search != nil && !m.search.Matches(row) {
			continue
		}
		m.visible = append(m.visible, i)
	}

	if m.sortState != sortNone && len(columns) > 0 {
		spec := columns[m.sortCol]
		if m.sortState == sortDesc {
			spec = "-" + spec
		}
		if keys, err := query.ParseSortKeys([]string{spec}); err == nil {
			subset := make([]jval.Value, len(m.visible))
			for i, idx := range m.visible {
				subset[i] = m.rows[idx]
			}
			perm := query.SortIndices(subset, keys)
			sorted := make([]int, len(m.visible))
			for i, p := range perm {
				sorted[i] = m.visible[p]
			}
			m.visible = sorted
		}
	}

	m.table = m.buildTable(columns)
}

func (m *Model) buildTable(columns []string) table.Model {
	cells := make([][]string, len(m.visible))
	for i, idx := range m.visible {
		row := m.rows[idx]
		out := make([]string, len(columns))
		for j, col := range columns {
			if v, ok := row.Get(col); ok && !v.IsNull() {
				out[j] = v.Display()
			}
		}
		cells[i] = out
	}

	cols := make([]table.Column, len(columns))
	for j, name := range columns {
		width := lipgloss.Width(name)
		for _, row := range cells {
			if w := lipgloss.Width(row[j]); w > width {
				width = w
			}
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if width < minColumnWidth {
			width = minColumnWidth
		}
		title := name
		if j == m.sortCol && m.sortState == sortAsc {
			title += " ↑"
		} else if j == m.sortCol && m.sortState == sortDesc {
			title += " ↓"
		}
		cols[j] = table.Column{Title: title, Width: width}
	}

	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}

	height := m.height - 4
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(height),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderBottom(true)
	styles.Selected = styles.Selected.Reverse(true)
	t.SetStyles(styles)
	return t
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.mode != promptNone {
		b.WriteString(m.prompt.View())
	} else {
		b.WriteString(m.statusLine())
	}
	return b.String()
}

func (m Model) statusLine() string {
	parts := []string{fmt.Sprintf("%d/%d rows", len(m.visible), len(m.rows))}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.err != nil {
		parts = append(parts, fmt.Sprintf("error: %v", m.err))
	}
	parts = append(parts, "/ search  f filter  s sort  q quit")
	return strings.Join(parts, "  |  ")
}

// SelectedRow returns the underlying row under the cursor.
func (m Model) SelectedRow() (jval.Value, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return jval.Null, false
	}
	return m.rows[m.visible[cursor]], true
}

// VisibleCount returns the number of rows after filter and search.
func (m Model) VisibleCount() int { return len(m.visible) }
