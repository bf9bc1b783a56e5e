// Package treectl keeps an outline panel synchronized with its document and
// translates panel selections into document cursor moves and back.
package treectl

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/itsmostafa/mdtree/internal/debounce"
	"github.com/itsmostafa/mdtree/internal/document"
	"github.com/itsmostafa/mdtree/internal/outline"
	"github.com/itsmostafa/mdtree/internal/panel"
)

var (
	// ErrAlreadyTreed is returned when opening a second panel for a document.
	ErrAlreadyTreed = errors.New("document already has a tree panel")

	// ErrNotSupported is returned for documents without an outline format.
	ErrNotSupported = errors.New("not a supported structured document")

	// ErrNoHeadings is returned when the document has nothing to list.
	ErrNoHeadings = outline.ErrNoHeadings

	// ErrNoPanel is returned when an operation needs a panel that is gone.
	ErrNoPanel = errors.New("no tree panel for document")

	// ErrNoEntry is returned when activating a row that does not exist.
	ErrNoEntry = errors.New("no such panel entry")

	// ErrNoFocus is returned when a step names neither a panel nor a document.
	ErrNoFocus = errors.New("nothing focused")
)

// closePrompt is asked when a row is activated after its document closed.
const closePrompt = "Base document closed. Close tree panel?"

// Host is the environment the controller drives: window focus, scrolling
// and user prompts.
type Host interface {
	FocusDocument(doc *document.Document)
	FocusPanel(p *panel.Panel)
	// ScrollToTop scrolls the document view so pos is on the first line.
	ScrollToTop(doc *document.Document, pos int)
	// Confirm asks a yes/no question and calls answer with the reply.
	Confirm(prompt string, answer func(yes bool))
	// Alert surfaces an error that is not the result of a direct call.
	Alert(err error)
}

// Options configures a Controller.
type Options struct {
	// NarrowOnJump restricts the document to the subtree of the heading
	// jumped to.
	NarrowOnJump bool
	// Debounce is the quiet period before a rescan after an edit.
	Debounce time.Duration
}

// DefaultOptions returns the default Options.
func DefaultOptions() Options {
	return Options{
		NarrowOnJump: true,
		Debounce:     50 * time.Millisecond,
	}
}

// Focus names the side that received a navigation gesture. Exactly one
// field is expected to be set.
type Focus struct {
	Panel    *panel.Panel
	Document *document.Document
}

type binding struct {
	doc   *document.Document
	panel *panel.Panel
}

// watcher is the change observer installed on a document. It outlives the
// panel until its next timer fires.
type watcher struct {
	sub  document.Subscription
	slot *debounce.Slot
}

// Controller owns the panel bindings. It is not safe for concurrent use;
// every call, including scheduler callbacks, must come from one event loop.
type Controller struct {
	host  Host
	sched debounce.Scheduler
	opts  Options
	log   *slog.Logger

	bindings map[document.ID]*binding
	watchers map[document.ID]*watcher
}

// New creates a Controller. A nil logger uses slog.Default.
func New(host Host, sched debounce.Scheduler, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		host:     host,
		sched:    sched,
		opts:     opts,
		log:      logger,
		bindings: make(map[document.ID]*binding),
		watchers: make(map[document.ID]*watcher),
	}
}

// Options returns the controller configuration.
func (c *Controller) Options() Options { return c.opts }

// SetNarrowOnJump toggles narrowing for subsequent jumps.
func (c *Controller) SetNarrowOnJump(on bool) { c.opts.NarrowOnJump = on }

// Open creates the panel for doc, fills it and gives it focus.
func (c *Controller) Open(doc *document.Document) (*panel.Panel, error) {
	if _, ok := c.bindings[doc.ID()]; ok {
		return nil, fmt.Errorf("%s: %w", doc.Name(), ErrAlreadyTreed)
	}
	if !doc.Kind().Supported() {
		return nil, fmt.Errorf("%s (%s): %w", doc.Name(), doc.Kind(), ErrNotSupported)
	}

	headings, err := outline.Scan(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name(), err)
	}

	p := panel.New(doc.ID(), doc.Name()+" tree")
	c.bindings[doc.ID()] = &binding{doc: doc, panel: p}
	c.observe(doc)

	p.SetEntries(headings)
	c.highlight(doc, 0)
	c.host.FocusPanel(p)

	c.log.Info("tree panel opened", "doc", doc.Name(), "headings", len(headings))
	return p, nil
}

// Panel returns the panel bound to doc.
func (c *Controller) Panel(doc *document.Document) (*panel.Panel, bool) {
	b, ok := c.bindings[doc.ID()]
	if !ok {
		return nil, false
	}
	return b.panel, true
}

// ClosePanel closes p and destroys its binding. A pending refresh is left
// to fire; it finds no panel and removes the change observer.
func (c *Controller) ClosePanel(p *panel.Panel) {
	if b, ok := c.bindings[p.DocumentID()]; ok && b.panel == p {
		delete(c.bindings, p.DocumentID())
	}
	p.Close()
	c.log.Info("tree panel closed", "panel", p.Name())
}

// Pending reports whether a refresh is scheduled for doc.
func (c *Controller) Pending(doc *document.Document) bool {
	w, ok := c.watchers[doc.ID()]
	return ok && w.slot.Pending()
}

// Observing reports whether a change observer is installed on doc.
func (c *Controller) Observing(doc *document.Document) bool {
	_, ok := c.watchers[doc.ID()]
	return ok
}

func (c *Controller) observe(doc *document.Document) {
	if _, ok := c.watchers[doc.ID()]; ok {
		return
	}
	w := &watcher{
		slot: debounce.NewSlot(c.sched, c.opts.Debounce, func() { c.refresh(doc) }),
	}
	w.sub = doc.Subscribe(func(ev document.ChangeEvent) { c.OnDocumentChanged(doc, ev) })
	c.watchers[doc.ID()] = w
}

func (c *Controller) unobserve(doc *document.Document) {
	w, ok := c.watchers[doc.ID()]
	if !ok {
		return
	}
	doc.Unsubscribe(w.sub)
	w.slot.Cancel()
	delete(c.watchers, doc.ID())
}

// OnDocumentChanged schedules a refresh of doc's panel. Changes arriving
// while a refresh is pending are absorbed by it.
func (c *Controller) OnDocumentChanged(doc *document.Document, ev document.ChangeEvent) {
	w, ok := c.watchers[doc.ID()]
	if !ok {
		return
	}
	if w.slot.Trigger() {
		c.log.Debug("refresh scheduled", "doc", doc.Name(), "start", ev.Start, "end", ev.End)
	}
}

// refresh runs when the debounce timer fires.
func (c *Controller) refresh(doc *document.Document) {
	b, ok := c.bindings[doc.ID()]
	if !ok || !b.panel.Live() {
		c.unobserve(doc)
		c.log.Debug("no tree panel, observer removed", "doc", doc.Name())
		return
	}

	headings, err := outline.Scan(doc)
	if err != nil {
		err = fmt.Errorf("refresh %s: %w", doc.Name(), err)
		c.log.Warn("tree refresh failed", "doc", doc.Name(), "error", err)
		c.host.Alert(err)
		return
	}

	b.panel.SetEntries(headings)
	c.highlight(doc, 0)
	c.log.Debug("tree refreshed", "doc", doc.Name(), "headings", len(headings))
}

// RefreshHighlight moves the panel highlight to the given 1-based ordinal,
// or to the heading containing the document cursor when ordinal is 0. The
// entry list is not changed.
func (c *Controller) RefreshHighlight(doc *document.Document, ordinal int) error {
	if !c.highlight(doc, ordinal) {
		return fmt.Errorf("%s: %w", doc.Name(), ErrNoPanel)
	}
	return nil
}

func (c *Controller) highlight(doc *document.Document, ordinal int) bool {
	b, ok := c.bindings[doc.ID()]
	if !ok {
		return false
	}
	if ordinal <= 0 {
		ordinal = outline.LocateOrdinal(doc, doc.Point())
	}
	b.panel.SetCursor(ordinal - 1)
	return true
}

// ActivateEntry jumps the document to the heading of row index.
func (c *Controller) ActivateEntry(p *panel.Panel, index int) error {
	return c.activate(p, index, false)
}

// activate jumps to row index. When stepping, focus goes back to the panel.
func (c *Controller) activate(p *panel.Panel, index int, stepping bool) error {
	if !p.Live() {
		return fmt.Errorf("%s: %w", p.Name(), ErrNoPanel)
	}
	e, ok := p.Entry(index)
	if !ok {
		return fmt.Errorf("row %d: %w", index, ErrNoEntry)
	}

	b, ok := c.bindings[p.DocumentID()]
	if !ok || b.panel != p || !b.doc.Live() {
		c.host.Confirm(closePrompt, func(yes bool) {
			if yes {
				c.ClosePanel(p)
			}
		})
		return nil
	}

	doc := b.doc
	pos := e.Heading.Pos()
	if pos < 0 {
		return fmt.Errorf("row %d has a stale position: %w", index, ErrNoEntry)
	}

	p.SetCursor(index)
	c.host.FocusDocument(doc)
	doc.Widen()
	doc.ShowAll()
	doc.SetPoint(pos)
	c.host.ScrollToTop(doc, pos)
	if c.opts.NarrowOnJump {
		c.narrowToSubtree(doc, pos)
	}
	if stepping {
		c.host.FocusPanel(p)
	}

	c.log.Debug("jumped to heading", "doc", doc.Name(), "heading", e.Heading.Text, "pos", pos)
	return nil
}

func (c *Controller) narrowToSubtree(doc *document.Document, pos int) {
	doc.Narrow(doc.LineStart(pos), outline.SubtreeEnd(doc, pos))
}

// StepNext moves to the next heading from whichever side has focus.
func (c *Controller) StepNext(f Focus) error {
	return c.step(f, true)
}

// StepPrevious moves to the previous heading from whichever side has focus.
func (c *Controller) StepPrevious(f Focus) error {
	return c.step(f, false)
}

func (c *Controller) step(f Focus, forward bool) error {
	switch {
	case f.Panel != nil:
		delta := -1
		if forward {
			delta = 1
		}
		if !f.Panel.Move(delta) {
			return nil
		}
		return c.activate(f.Panel, f.Panel.Cursor(), true)
	case f.Document != nil:
		if forward {
			c.stepDocumentNext(f.Document)
		} else {
			c.stepDocumentPrevious(f.Document)
		}
		return nil
	default:
		return ErrNoFocus
	}
}

func (c *Controller) stepDocumentNext(doc *document.Document) {
	pos, ok := outline.NextHeading(doc, doc.Point())
	if !ok {
		return
	}
	doc.Widen()
	doc.SetPoint(pos)
	c.highlight(doc, 0)
	if c.opts.NarrowOnJump {
		c.narrowToSubtree(doc, pos)
	}
}

func (c *Controller) stepDocumentPrevious(doc *document.Document) {
	pos, ok := outline.PreviousHeading(doc, doc.Point())
	doc.Widen()
	if !ok {
		doc.SetPoint(0)
		c.highlight(doc, 0)
		return
	}
	doc.SetPoint(pos)
	c.highlight(doc, 0)
	if c.opts.NarrowOnJump {
		c.narrowToSubtree(doc, pos)
	}
}
