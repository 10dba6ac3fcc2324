// Package render turns tabular views into text for the non-interactive CLI
// modes.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tomoya55/jlcat/internal/jval"
)

// Style selects the table output format.
type Style string

const (
	StylePlain    Style = "plain"
	StyleAscii    Style = "ascii"
	StyleRounded  Style = "rounded"
	StyleMarkdown Style = "markdown"
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StylePlain, StyleAscii, StyleRounded, StyleMarkdown:
		return Style(s), nil
	default:
		return "", fmt.Errorf("unknown style %q (want plain, ascii, rounded or markdown)", s)
	}
}

// asciiBorder draws the classic +-|+ box.
var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
	MiddleLeft: "+", MiddleRight: "+", Middle: "+", MiddleTop: "+", MiddleBottom: "+",
}

// Renderer writes tables in one of the supported styles.
type Renderer struct {
	style Style
}

// New creates a renderer.
func New(style Style) *Renderer {
	return &Renderer{style: style}
}

// Render writes one table. Null cells render as empty strings; the data model
// still carries them as nulls.
func (r *Renderer) Render(w io.Writer, columns []string, rows [][]jval.Value) error {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, len(row))
		for j, v := range row {
			out[j] = cellText(v)
		}
		cells[i] = out
	}

	switch r.style {
	case StyleMarkdown:
		return renderMarkdown(w, columns, cells)
	case StylePlain:
		return renderPlain(w, columns, cells)
	default:
		return r.renderBordered(w, columns, cells)
	}
}

func (r *Renderer) renderBordered(w io.Writer, columns []string, cells [][]string) error {
	border := lipgloss.RoundedBorder()
	if r.style == StyleAscii {
		border = asciiBorder
	}
	t := table.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(columns...).
		Rows(cells...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func renderMarkdown(w io.Writer, columns []string, cells [][]string) error {
	widths := columnWidths(columns, cells)
	var b strings.Builder
	writeMarkdownRow(&b, columns, widths)
	b.WriteString("|")
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range cells {
		writeMarkdownRow(&b, row, widths)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMarkdownRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, width := range widths {
		text := ""
		if i < len(cells) {
			text = strings.ReplaceAll(cells[i], "|", "\\|")
		}
		fmt.Fprintf(b, " %-*s |", width, text)
	}
	b.WriteString("\n")
}

func renderPlain(w io.Writer, columns []string, cells [][]string) error {
	widths := columnWidths(columns, cells)
	var b strings.Builder
	writePlainRow(&b, columns, widths)
	for _, row := range cells {
		writePlainRow(&b, row, widths)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writePlainRow(b *strings.Builder, cells []string, widths []int) {
	for i, width := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		if i == len(widths)-1 {
			// No trailing padding on the last column.
			b.WriteString(text)
			continue
		}
		fmt.Fprintf(b, "%-*s  ", width, text)
	}
	b.WriteString("\n")
}

func columnWidths(columns []string, cells [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = lipgloss.Width(col)
	}
	for _, row := range cells {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// cellText renders one cell. Nulls show as empty so sparse tables stay
// readable; escaped pipes are the markdown writer's concern.
func cellText(v jval.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.Display()
}
