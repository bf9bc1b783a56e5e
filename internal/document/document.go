package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	// ErrKilled is returned when editing a document that has been closed.
	ErrKilled = errors.New("document is no longer live")

	// ErrRange is returned when an edit falls outside the document.
	ErrRange = errors.New("position out of range")
)

// ID identifies a document for the lifetime of the process.
type ID string

// ChangeEvent describes a single splice applied to a document.
// The text in [Start, End) was inserted in place of Removed bytes.
type ChangeEvent struct {
	Start   int
	End     int
	Removed int
}

// Observer is called synchronously after every edit.
type Observer func(ev ChangeEvent)

// Subscription identifies a registered observer.
type Subscription int

type observerEntry struct {
	sub Subscription
	fn  Observer
}

// Document is an in-memory text buffer with a cursor, stable markers,
// edit observers, narrowing and heading folds.
//
// A Document is not safe for concurrent use. All calls are expected to come
// from the owning event loop.
type Document struct {
	id   ID
	name string
	path string
	kind Kind
	text string
	live bool

	point   *Marker
	markers map[*Marker]struct{}

	observers []observerEntry
	nextSub   Subscription

	// Narrowing bounds; nil when the whole document is accessible.
	narrowStart *Marker
	narrowEnd   *Marker

	folds []*Marker
}

// New creates a live document holding text.
func New(name string, kind Kind, text string) *Document {
	d := &Document{
		id:      ID(uuid.New().String()),
		name:    name,
		kind:    kind,
		text:    text,
		live:    true,
		markers: make(map[*Marker]struct{}),
	}
	d.point = d.NewMarker(0)
	return d
}

// Open reads the file at path into a new document whose kind is detected
// from the file extension.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	d := New(filepath.Base(path), DetectKind(path), string(data))
	d.path = abs
	return d, nil
}

func (d *Document) ID() ID { return d.id }
func (d *Document) Name() string { return d.name }
func (d *Document) Path() string { return d.path }
func (d *Document) Kind() Kind { return d.kind }

// Text returns the full contents, ignoring any narrowing.
func (d *Document) Text() string { return d.text }

// Len returns the full length in bytes.
func (d *Document) Len() int { return len(d.text) }

// Live reports whether the document is still open.
func (d *Document) Live() bool { return d.live }

// Kill marks the document closed. Markers keep their last positions.
func (d *Document) Kill() { d.live = false }

// Reload re-reads the backing file and applies the difference as one edit.
func (d *Document) Reload() error {
	if d.path == "" {
		return fmt.Errorf("document %s has no backing file", d.name)
	}
	data, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", d.name, err)
	}
	return d.SetText(string(data))
}

// Point returns the cursor position.
func (d *Document) Point() int { return d.point.pos }

// SetPoint moves the cursor, clamped to the accessible region.
func (d *Document) SetPoint(pos int) {
	start, end := d.Bounds()
	d.point.pos = clamp(pos, start, end)
}

// Insert inserts s at pos.
func (d *Document) Insert(pos int, s string) error {
	return d.Replace(pos, pos, s)
}

// Delete removes the text in [start, end).
func (d *Document) Delete(start, end int) error {
	return d.Replace(start, end, "")
}

// Replace substitutes s for the text in [start, end), adjusts every marker
// and notifies observers.
func (d *Document) Replace(start, end int, s string) error {
	if !d.live {
		return ErrKilled
	}
	if start > end {
		start, end = end, start
	}
	if start < 0 || end > len(d.text) {
		return fmt.Errorf("replace [%d,%d) in %d bytes: %w", start, end, len(d.text), ErrRange)
	}
	if start == end && s == "" {
		return nil
	}

	d.text = d.text[:start] + s + d.text[end:]
	for m := range d.markers {
		m.adjust(start, end, len(s))
	}

	ev := ChangeEvent{Start: start, End: start + len(s), Removed: end - start}
	observers := make([]observerEntry, len(d.observers))
	copy(observers, d.observers)
	for _, o := range observers {
		o.fn(ev)
	}
	return nil
}

// SetText replaces the contents with s using the smallest single splice,
// so markers outside the changed region keep their meaning.
func (d *Document) SetText(s string) error {
	old := d.text
	if old == s {
		return nil
	}

	prefix := 0
	for prefix < len(old) && prefix < len(s) && old[prefix] == s[prefix] {
		prefix++
	}
	for prefix > 0 && prefix < len(old) && !utf8.RuneStart(old[prefix]) {
		prefix--
	}

	suffix := 0
	for suffix < len(old)-prefix && suffix < len(s)-prefix &&
		old[len(old)-1-suffix] == s[len(s)-1-suffix] {
		suffix++
	}
	for suffix > 0 && !utf8.RuneStart(old[len(old)-suffix]) {
		suffix--
	}

	return d.Replace(prefix, len(old)-suffix, s[prefix:len(s)-suffix])
}

// Subscribe registers fn to run after every edit.
func (d *Document) Subscribe(fn Observer) Subscription {
	d.nextSub++
	d.observers = append(d.observers, observerEntry{sub: d.nextSub, fn: fn})
	return d.nextSub
}

// Unsubscribe removes an observer. Unknown subscriptions are ignored.
func (d *Document) Unsubscribe(sub Subscription) {
	for i, o := range d.observers {
		if o.sub == sub {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// Observers returns the number of registered observers.
func (d *Document) Observers() int { return len(d.observers) }

// Narrow restricts the accessible region to [start, end).
func (d *Document) Narrow(start, end int) {
	if start > end {
		start, end = end, start
	}
	start = clamp(start, 0, len(d.text))
	end = clamp(end, 0, len(d.text))

	d.Widen()
	d.narrowStart = d.NewMarker(start)
	d.narrowEnd = d.NewMarker(end)
	d.narrowEnd.SetAdvance(true)
	d.SetPoint(d.point.pos)
}

// Widen removes any narrowing.
func (d *Document) Widen() {
	if d.narrowStart != nil {
		d.narrowStart.Release()
		d.narrowEnd.Release()
		d.narrowStart, d.narrowEnd = nil, nil
	}
}

// Narrowed reports whether a restriction is in effect.
func (d *Document) Narrowed() bool { return d.narrowStart != nil }

// Bounds returns the accessible region.
func (d *Document) Bounds() (start, end int) {
	if d.narrowStart == nil {
		return 0, len(d.text)
	}
	return d.narrowStart.pos, d.narrowEnd.pos
}

// Fold hides the body of the heading whose line contains pos.
func (d *Document) Fold(pos int) {
	if d.Folded(pos) {
		return
	}
	d.folds = append(d.folds, d.NewMarker(d.LineStart(pos)))
}

// Unfold reveals the heading whose line contains pos.
func (d *Document) Unfold(pos int) {
	ls := d.LineStart(pos)
	for i, m := range d.folds {
		if m.pos == ls {
			m.Release()
			d.folds = append(d.folds[:i], d.folds[i+1:]...)
			return
		}
	}
}

// ToggleFold flips the fold state of the line containing pos.
func (d *Document) ToggleFold(pos int) {
	if d.Folded(pos) {
		d.Unfold(pos)
	} else {
		d.Fold(pos)
	}
}

// Folded reports whether the line containing pos is folded.
func (d *Document) Folded(pos int) bool {
	ls := d.LineStart(pos)
	for _, m := range d.folds {
		if m.pos == ls {
			return true
		}
	}
	return false
}

// Folds returns the line starts of folded headings.
func (d *Document) Folds() []int {
	out := make([]int, 0, len(d.folds))
	for _, m := range d.folds {
		out = append(out, m.pos)
	}
	return out
}

// ShowAll removes every fold.
func (d *Document) ShowAll() {
	for _, m := range d.folds {
		m.Release()
	}
	d.folds = nil
}

// LineStart returns the offset of the start of the line containing pos.
func (d *Document) LineStart(pos int) int {
	pos = clamp(pos, 0, len(d.text))
	return strings.LastIndexByte(d.text[:pos], '\n') + 1
}

// LineEnd returns the offset of the newline ending the line containing pos,
// or the document length on the last line.
func (d *Document) LineEnd(pos int) int {
	pos = clamp(pos, 0, len(d.text))
	if i := strings.IndexByte(d.text[pos:], '\n'); i >= 0 {
		return pos + i
	}
	return len(d.text)
}

// LineAt returns the 0-based line number containing pos.
func (d *Document) LineAt(pos int) int {
	pos = clamp(pos, 0, len(d.text))
	return strings.Count(d.text[:pos], "\n")
}

// LineOffset returns the start offset of a 0-based line. Lines past the end
// map to the document length.
func (d *Document) LineOffset(line int) int {
	off := 0
	for i := 0; i < line; i++ {
		j := strings.IndexByte(d.text[off:], '\n')
		if j < 0 {
			return len(d.text)
		}
		off += j + 1
	}
	return off
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
