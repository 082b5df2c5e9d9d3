package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders a simple fixed-layout table with a styled header row.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	t := &Table{headers: headers, widths: make([]int, len(headers))}
	for i, h := range headers {
		t.widths[i] = lipgloss.Width(h)
	}
	return t
}

// AddRow appends a row. Missing cells render empty; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if w := lipgloss.Width(row[i]); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Render returns the table as a string.
func (t *Table) Render() string {
	var b strings.Builder

	for i, h := range t.headers {
		b.WriteString(StyleHeader.Render(padR(h, t.widths[i])))
		if i < len(t.headers)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	for _, row := range t.rows {
		for i, cell := range row {
			b.WriteString(padR(cell, t.widths[i]))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// KeyValueBlock renders aligned key: value pairs inside a rounded border.
func KeyValueBlock(title string, pairs [][2]string) string {
	keyWidth := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > keyWidth {
			keyWidth = w
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(StyleTitle.Render(title))
		b.WriteString("\n")
	}
	for i, p := range pairs {
		b.WriteString(StyleMeta.Render(padR(p[0], keyWidth)))
		b.WriteString("  ")
		b.WriteString(p[1])
		if i < len(pairs)-1 {
			b.WriteString("\n")
		}
	}
	return StyleBorder.Render(b.String())
}

// padR right-pads s with spaces to the given display width. Styled strings
// are measured with lipgloss so ANSI sequences don't skew alignment.
func padR(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
