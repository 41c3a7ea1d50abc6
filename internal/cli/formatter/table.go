package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable renders a simple aligned table with a header separator line.
// Headers use the Header style; columns are padded to the widest cell,
// measured by visible width so styled cells align.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	var b strings.Builder

	writeCell := func(text, styled string, col int) {
		b.WriteString(styled)
		if col < cols-1 {
			b.WriteString(strings.Repeat(" ", widths[col]-lipgloss.Width(text)+colGap))
		}
	}

	for i, h := range headers {
		writeCell(h, render(StyleHeader, h), i)
	}
	b.WriteString("\n")

	for i, w := range widths {
		writeCell(strings.Repeat("─", w), render(StyleDim, strings.Repeat("─", w)), i)
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			writeCell(cell, cell, i)
		}
		b.WriteString("\n")
	}

	return b.String()
}
