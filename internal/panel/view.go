package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	// titleStyle for the panel header
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// rowStyle for unselected rows
	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// topLevelStyle for level-one headings
	topLevelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	// cursorStyle for the highlighted row while the panel has focus
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("160"))

	// blurredCursorStyle for the highlighted row without focus
	blurredCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("255")).
				Background(lipgloss.Color("240"))

	// dimStyle for closed panels
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// View renders the panel into width x height cells. The row list scrolls so
// the cursor stays visible.
func (p *Panel) View(width, height int, focused bool) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	lines := []string{titleStyle.Render(runewidth.Truncate(p.name, width, "…"))}
	if !p.live {
		lines = append(lines, dimStyle.Render("(closed)"))
		return strings.Join(lines, "\n")
	}

	rows := height - 1
	if rows <= 0 {
		return lines[0]
	}

	top := 0
	if p.cursor >= rows {
		top = p.cursor - rows + 1
	}

	for i := top; i < len(p.entries) && i < top+rows; i++ {
		e := p.entries[i]
		label := formatRow(e, width)

		switch {
		case i == p.cursor && focused:
			label = cursorStyle.Render(label)
		case i == p.cursor:
			label = blurredCursorStyle.Render(label)
		case e.Heading.Level == 1:
			label = topLevelStyle.Render(label)
		default:
			label = rowStyle.Render(label)
		}
		lines = append(lines, label)
	}

	return strings.Join(lines, "\n")
}

// formatRow indents a heading by level and pads it to width.
func formatRow(e Entry, width int) string {
	indent := strings.Repeat("  ", max(e.Heading.Level-1, 0))
	text := runewidth.Truncate(indent+e.Heading.Text, width, "…")
	return runewidth.FillRight(text, width)
}
