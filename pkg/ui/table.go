package ui

import (
	"fmt"
	"strings"
)

// Table renders tabular asset listings with lipgloss styling. Column
// widths grow to fit content, optionally capped by MaxWidth.
type Table struct {
	Headers  []string
	Rows     [][]string
	MaxWidth int // per-cell cap; 0 = unlimited
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row; missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render renders the table as a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i := range t.Headers {
			cell := t.cell(row, i)
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			if widths[i] > t.MaxWidth {
				widths[i] = t.MaxWidth
			}
		}
	}

	var b strings.Builder

	parts := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		parts[i] = pad(h, widths[i])
	}
	b.WriteString(StyleTableHeader.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	for i := range parts {
		parts[i] = strings.Repeat("─", widths[i])
	}
	b.WriteString(StyleTableBorder.Render(strings.Join(parts, "  ")))
	b.WriteString("\n")

	for idx, row := range t.Rows {
		for i := range t.Headers {
			parts[i] = pad(t.cell(row, i), widths[i])
		}
		style := StyleTableRow
		if idx%2 == 1 {
			style = StyleTableRowAlt
		}
		b.WriteString(style.Render(strings.Join(parts, "  ")))
		b.WriteString("\n")
	}

	return b.String()
}

func (t *Table) cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	cell := row[i]
	if t.MaxWidth > 0 && len(cell) > t.MaxWidth {
		cell = cell[:t.MaxWidth-1] + "…"
	}
	return cell
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderKeyValue renders a key-value pair.
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s: %s", StyleAccent.Render(key), value)
}

// RenderList renders a simple bulleted list.
func RenderList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(StyleInfo.Render("  • "))
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}
