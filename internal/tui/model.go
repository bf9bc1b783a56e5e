package tui

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itsmostafa/mdtree/internal/debounce"
	"github.com/itsmostafa/mdtree/internal/document"
	"github.com/itsmostafa/mdtree/internal/panel"
	"github.com/itsmostafa/mdtree/internal/treectl"
)

type pane int

const (
	panePanel pane = iota
	paneDocument
)

type confirmState struct {
	prompt string
	answer func(bool)
}

// Options configures the terminal host.
type Options struct {
	Controller treectl.Options
	PanelWidth int
	Logger     *slog.Logger
	// Scheduler overrides the event-loop scheduler, mainly for tests.
	Scheduler debounce.Scheduler
}

// Model is the bubbletea model hosting one document and its outline panel.
// It implements treectl.Host.
type Model struct {
	ctl   *treectl.Controller
	doc   *document.Document
	panel *panel.Panel
	log   *slog.Logger

	keys  panel.KeyMap
	help  help.Model
	view  viewport.Model
	focus pane

	panelWidth    int
	width, height int

	// rows are the line starts of the visible document lines.
	rows      []int
	scrollTop int

	confirm *confirmState
	alert   error

	// loop is nil when Options.Scheduler was supplied.
	loop *loopScheduler
}

// New opens the outline panel for doc. Failures to open are returned so
// the caller can report them before starting the program.
func New(doc *document.Document, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PanelWidth <= 0 {
		opts.PanelWidth = 32
	}

	m := &Model{
		doc:        doc,
		log:        logger,
		keys:       panel.DefaultKeyMap(),
		help:       help.New(),
		view:       viewport.New(0, 0),
		panelWidth: opts.PanelWidth,
		scrollTop:  -1,
	}

	sched := opts.Scheduler
	if sched == nil {
		m.loop = &loopScheduler{}
		sched = m.loop
	}

	m.ctl = treectl.New(m, sched, opts.Controller, logger)
	p, err := m.ctl.Open(doc)
	if err != nil {
		return nil, err
	}
	m.panel = p
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// FocusDocument implements treectl.Host.
func (m *Model) FocusDocument(*document.Document) { m.focus = paneDocument }

// FocusPanel implements treectl.Host.
func (m *Model) FocusPanel(*panel.Panel) { m.focus = panePanel }

// ScrollToTop implements treectl.Host. The scroll is applied on the next
// layout pass, once folds and narrowing are settled.
func (m *Model) ScrollToTop(_ *document.Document, pos int) { m.scrollTop = pos }

// Confirm implements treectl.Host.
func (m *Model) Confirm(prompt string, answer func(bool)) {
	m.confirm = &confirmState{prompt: prompt, answer: answer}
}

// Alert implements treectl.Host.
func (m *Model) Alert(err error) { m.alert = err }

func (m *Model) report(err error) {
	if err == nil || errors.Is(err, treectl.ErrNoPanel) {
		return
	}
	m.log.Warn("command failed", "error", err)
	m.alert = err
}
