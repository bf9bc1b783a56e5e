package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/itsmostafa/mdtree/internal/logger"
	"github.com/itsmostafa/mdtree/internal/outline"
)

// visibleRows returns the line starts shown in the document pane: the
// accessible region with the bodies of folded headings left out.
func (m *Model) visibleRows() []int {
	start, end := m.doc.Bounds()
	var rows []int
	pos := start
	for {
		rows = append(rows, pos)
		next := m.doc.LineEnd(pos) + 1
		if m.doc.Folded(pos) {
			if _, ok := outline.HeadingAt(m.doc, pos); ok {
				next = max(next, outline.SubtreeEnd(m.doc, pos))
			}
		}
		if next >= end || next > m.doc.Len() {
			return rows
		}
		pos = next
	}
}

// cursorRow returns the row holding the document cursor. A cursor inside a
// folded body maps to its heading.
func (m *Model) cursorRow() int {
	ls := m.doc.LineStart(m.doc.Point())
	row := 0
	for i, r := range m.rows {
		if r > ls {
			break
		}
		row = i
	}
	return row
}

func (m *Model) docSize() (width, height int) {
	width = m.width - m.panelWidth - panelBoxStyle.GetHorizontalFrameSize()
	height = m.height - 1
	return max(width, 0), max(height, 0)
}

// layout recomputes the visible rows and the viewport offset. A pending
// ScrollToTop request wins over keeping the cursor in view.
func (m *Model) layout() {
	m.rows = m.visibleRows()
	width, height := m.docSize()
	m.view.Width, m.view.Height = width, height
	m.view.SetContent(m.renderRows(width))

	cur := m.cursorRow()
	if m.scrollTop >= 0 {
		ls := m.doc.LineStart(m.scrollTop)
		for i, r := range m.rows {
			if r >= ls {
				m.view.SetYOffset(i)
				break
			}
		}
		m.scrollTop = -1
		return
	}
	switch {
	case cur < m.view.YOffset:
		m.view.SetYOffset(cur)
	case height > 0 && cur >= m.view.YOffset+height:
		m.view.SetYOffset(cur - height + 1)
	}
}

func (m *Model) renderRows(width int) string {
	cur := m.cursorRow()
	text := m.doc.Text()
	lines := make([]string, 0, len(m.rows))
	for i, r := range m.rows {
		line := strings.ReplaceAll(text[r:m.doc.LineEnd(r)], "\t", "    ")
		level, heading := outline.HeadingAt(m.doc, r)
		folded := heading && m.doc.Folded(r)
		if folded {
			line += " …"
		}
		if width > 0 {
			line = runewidth.Truncate(line, width, "…")
		}

		switch {
		case i == cur && m.focus == paneDocument:
			line = cursorLineStyle.Render(runewidth.FillRight(line, width))
		case heading && level == 1:
			line = headingStyle.Render(line)
		case heading:
			line = subheadingStyle.Render(line)
		default:
			line = textStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, height := m.docSize()

	left := panelBoxStyle.
		Width(m.panelWidth).
		Height(height).
		Render(m.panel.View(m.panelWidth, height, m.focus == panePanel))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, m.view.View())
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

func (m *Model) statusLine() string {
	if m.confirm != nil {
		return promptStyle.Render(m.confirm.prompt + " (y/n)")
	}

	parts := []string{statusStyle.Render(fmt.Sprintf("%s [%s]", m.doc.Name(), m.doc.Kind()))}
	if m.doc.Narrowed() {
		parts = append(parts, flagStyle.Render("narrowed"))
	}
	if m.ctl.Pending(m.doc) {
		parts = append(parts, flagStyle.Render("refreshing"))
	}
	if !m.doc.Live() {
		parts = append(parts, alertStyle.Render("closed"))
	}

	switch e, ok := logger.Latest(); {
	case m.alert != nil:
		parts = append(parts, alertStyle.Render(m.alert.Error()))
	case ok:
		parts = append(parts, alertStyle.Render(e.Format()))
	default:
		parts = append(parts, m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	line := strings.Join(parts, "  ")
	if m.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(m.width).Render(line)
	}
	return line
}
