package tui

import "github.com/charmbracelet/lipgloss"

var (
	// headingStyle for heading lines in the document pane
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("160"))

	// subheadingStyle for headings below level one
	subheadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))

	// textStyle for body lines
	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// cursorLineStyle for the cursor line while the document has focus
	cursorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("238"))

	// foldStyle for the marker after a folded heading
	foldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// panelBoxStyle separates the panel from the document
	panelBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240"))

	// statusStyle for the status line
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// flagStyle for status flags such as narrowed or pending
	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	// alertStyle for errors in the status line
	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// promptStyle for yes/no questions
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))
)
