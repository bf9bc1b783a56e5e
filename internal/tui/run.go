package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/itsmostafa/mdtree/internal/debounce"
	"github.com/itsmostafa/mdtree/internal/document"
	"github.com/itsmostafa/mdtree/internal/watch"
)

// runMsg carries a timer callback onto the event loop.
type runMsg struct{ f func() }

// fileEventMsg carries a file change onto the event loop.
type fileEventMsg struct{ ev watch.Event }

// loopScheduler fires debounce timers on the bubbletea event loop, so
// every controller callback runs on the same goroutine as Update.
type loopScheduler struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (s *loopScheduler) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

func (s *loopScheduler) post(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// AfterFunc implements debounce.Scheduler.
func (s *loopScheduler) AfterFunc(d time.Duration, f func()) debounce.Timer {
	return time.AfterFunc(d, func() { s.post(runMsg{f: f}) })
}

// Run opens doc with its outline panel and runs the interactive program
// until the user quits or ctx is cancelled.
func Run(ctx context.Context, doc *document.Document, opts Options) error {
	m, err := New(doc, opts)
	if err != nil {
		return err
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if m.loop != nil {
		m.loop.attach(program.Send)
	}

	if doc.Path() != "" {
		fw, err := watch.New(doc.Path(),
			func(ev watch.Event) { program.Send(fileEventMsg{ev: ev}) },
			func(err error) { m.log.Warn("file watcher error", "error", err) },
		)
		if err != nil {
			m.log.Warn("live reload disabled", "doc", doc.Name(), "error", err)
		} else {
			fw.Start(ctx)
			defer fw.Stop()
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run tree view: %w", err)
	}
	return nil
}
