// Package panel implements the outline list panel shown beside a document.
package panel

import (
	"github.com/google/uuid"

	"github.com/itsmostafa/mdtree/internal/document"
	"github.com/itsmostafa/mdtree/internal/outline"
)

// ID identifies a panel.
type ID string

// Entry is one row of the panel and the heading it stands for.
type Entry struct {
	Index   int
	Heading outline.Heading
}

// Panel is an ordered, replaceable list of heading rows with a cursor.
// The cursor row is the highlighted row.
type Panel struct {
	id      ID
	doc     document.ID
	name    string
	entries []Entry
	cursor  int
	live    bool
}

// New creates an empty panel bound to a document.
func New(doc document.ID, name string) *Panel {
	return &Panel{
		id:   ID(uuid.New().String()),
		doc:  doc,
		name: name,
		live: true,
	}
}

func (p *Panel) ID() ID { return p.id }
func (p *Panel) DocumentID() document.ID { return p.doc }
func (p *Panel) Name() string { return p.name }
func (p *Panel) Live() bool { return p.live }
func (p *Panel) Len() int { return len(p.entries) }
func (p *Panel) Cursor() int { return p.cursor }
func (p *Panel) Entries() []Entry { return p.entries }

// SetEntries replaces every row. Markers of the previous rows are released.
// The cursor is kept in range but otherwise left for the caller to place.
func (p *Panel) SetEntries(headings []outline.Heading) {
	for _, e := range p.entries {
		e.Heading.Position.Release()
	}
	entries := make([]Entry, len(headings))
	for i, h := range headings {
		entries[i] = Entry{Index: i, Heading: h}
	}
	p.entries = entries
	p.SetCursor(p.cursor)
}

// SetCursor moves the highlight to row i, clamped to the rows.
func (p *Panel) SetCursor(i int) {
	if i >= len(p.entries) {
		i = len(p.entries) - 1
	}
	if i < 0 {
		i = 0
	}
	p.cursor = i
}

// Move shifts the cursor by delta rows. It reports false when the cursor
// could not move.
func (p *Panel) Move(delta int) bool {
	before := p.cursor
	p.SetCursor(p.cursor + delta)
	return p.cursor != before
}

// Selected returns the highlighted entry.
func (p *Panel) Selected() (Entry, bool) {
	return p.Entry(p.cursor)
}

// Entry returns row i.
func (p *Panel) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(p.entries) {
		return Entry{}, false
	}
	return p.entries[i], true
}

// Close marks the panel closed and releases its rows.
func (p *Panel) Close() {
	if !p.live {
		return
	}
	p.live = false
	for _, e := range p.entries {
		e.Heading.Position.Release()
	}
}
