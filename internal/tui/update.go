package tui

import (
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itsmostafa/mdtree/internal/logger"
	"github.com/itsmostafa/mdtree/internal/outline"
	"github.com/itsmostafa/mdtree/internal/treectl"
	"github.com/itsmostafa/mdtree/internal/watch"
)

// removeGrace is how long a removed file may take to reappear before the
// document is considered closed. Editors that save by rename remove and
// re-create the file in quick succession.
const removeGrace = 200 * time.Millisecond

// removeCheckMsg re-examines the file after a remove event.
type removeCheckMsg struct{ path string }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case runMsg:
		msg.f()

	case fileEventMsg:
		cmd = m.handleFileEvent(msg.ev)

	case removeCheckMsg:
		if _, err := os.Stat(msg.path); err != nil {
			m.log.Info("document file removed", "doc", m.doc.Name())
			m.doc.Kill()
		} else {
			m.report(m.doc.Reload())
		}

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	m.layout()
	return m, cmd
}

func (m *Model) handleFileEvent(ev watch.Event) tea.Cmd {
	if !m.doc.Live() {
		return nil
	}
	switch ev.Op {
	case watch.OpWrite:
		m.log.Debug("document file changed", "doc", m.doc.Name())
		m.report(m.doc.Reload())
	case watch.OpRemove:
		path := ev.Path
		return tea.Tick(removeGrace, func(time.Time) tea.Msg {
			return removeCheckMsg{path: path}
		})
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirm != nil {
		return m.handleConfirm(msg)
	}

	m.alert = nil
	logger.ClearLatest()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.SwitchPane):
		if m.focus == paneDocument && m.panel.Live() {
			m.focus = panePanel
		} else {
			m.focus = paneDocument
		}
		return nil
	case key.Matches(msg, m.keys.Widen):
		m.doc.Widen()
		return nil
	}

	if m.focus == panePanel && m.panel.Live() {
		m.handlePanelKey(msg)
	} else {
		m.handleDocumentKey(msg)
	}
	return nil
}

func (m *Model) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	c := m.confirm
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirm = nil
		c.answer(true)
	case key.Matches(msg, m.keys.Deny):
		m.confirm = nil
		c.answer(false)
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	}
	if !m.panel.Live() {
		m.focus = paneDocument
	}
	return nil
}

func (m *Model) handlePanelKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.panel.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.panel.Move(1)
	case key.Matches(msg, m.keys.Activate):
		m.report(m.ctl.ActivateEntry(m.panel, m.panel.Cursor()))
	case key.Matches(msg, m.keys.Next):
		m.report(m.ctl.StepNext(treectl.Focus{Panel: m.panel}))
	case key.Matches(msg, m.keys.Previous):
		m.report(m.ctl.StepPrevious(treectl.Focus{Panel: m.panel}))
	case key.Matches(msg, m.keys.ToggleFold):
		if e, ok := m.panel.Selected(); ok && e.Heading.Pos() >= 0 {
			m.doc.ToggleFold(e.Heading.Pos())
		}
	}
}

func (m *Model) handleDocumentKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.Next):
		m.report(m.ctl.StepNext(treectl.Focus{Document: m.doc}))
	case key.Matches(msg, m.keys.Previous):
		m.report(m.ctl.StepPrevious(treectl.Focus{Document: m.doc}))
	case key.Matches(msg, m.keys.ToggleFold):
		if _, ok := outline.HeadingAt(m.doc, m.doc.Point()); ok {
			m.doc.ToggleFold(m.doc.Point())
		}
	}
}

// moveRow moves the document cursor by delta visible rows and keeps the
// panel highlight on the enclosing heading.
func (m *Model) moveRow(delta int) {
	m.layout()
	i := m.cursorRow() + delta
	if i < 0 || i >= len(m.rows) {
		return
	}
	m.doc.SetPoint(m.rows[i])
	m.report(m.ctl.RefreshHighlight(m.doc, 0))
}
