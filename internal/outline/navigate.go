package outline

import (
	"github.com/itsmostafa/mdtree/internal/document"
)

// Ordinals are recomputed from the text on every call. Headings may repeat,
// and any edit shifts the ranks, so nothing here is cached.

// LocateOrdinal returns the 1-based rank of the heading containing pos: the
// number of heading lines starting at or before the line of pos. Positions
// before the first heading map to 1.
func LocateOrdinal(doc *document.Document, pos int) int {
	ls := doc.LineStart(pos)
	n := 0
	for _, l := range headingLines(doc.Text(), doc.Kind()) {
		if l.start > ls {
			break
		}
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}

// GoToOrdinal moves the cursor to the start of the n-th heading line,
// walking heading transitions from the start of the document. n is clamped
// to the available headings. The cursor stays within any narrowing.
func GoToOrdinal(doc *document.Document, n int) (int, error) {
	lines := headingLines(doc.Text(), doc.Kind())
	if len(lines) == 0 {
		return 0, ErrNoHeadings
	}
	if n < 1 {
		n = 1
	}

	pos := lines[0].start
	for i := 1; i < n && i < len(lines); i++ {
		pos = lines[i].start
	}
	doc.SetPoint(pos)
	return doc.Point(), nil
}

// NextHeading returns the start of the first heading line after pos, at any
// level.
func NextHeading(doc *document.Document, pos int) (int, bool) {
	for _, l := range headingLines(doc.Text(), doc.Kind()) {
		if l.start > pos {
			return l.start, true
		}
	}
	return 0, false
}

// PreviousHeading returns the start of the last heading line before pos, at
// any level. From inside a section body this is the section's own heading.
func PreviousHeading(doc *document.Document, pos int) (int, bool) {
	found, ok := 0, false
	for _, l := range headingLines(doc.Text(), doc.Kind()) {
		if l.start >= pos {
			break
		}
		found, ok = l.start, true
	}
	return found, ok
}

// SubtreeEnd returns the end of the subtree of the heading containing pos:
// the start of the next heading at the same or a higher level, or the end
// of the document. Before the first heading it returns that heading's start.
func SubtreeEnd(doc *document.Document, pos int) int {
	lines := headingLines(doc.Text(), doc.Kind())
	ls := doc.LineStart(pos)

	current := -1
	for i, l := range lines {
		if l.start > ls {
			break
		}
		current = i
	}
	if current < 0 {
		if len(lines) > 0 {
			return lines[0].start
		}
		return doc.Len()
	}

	level := lines[current].level
	for _, l := range lines[current+1:] {
		if l.level <= level {
			return l.start
		}
	}
	return doc.Len()
}

// HeadingAt reports whether the line containing pos is a heading line and
// returns its level.
func HeadingAt(doc *document.Document, pos int) (int, bool) {
	ls := doc.LineStart(pos)
	for _, l := range headingLines(doc.Text(), doc.Kind()) {
		if l.start == ls {
			return l.level, true
		}
		if l.start > ls {
			break
		}
	}
	return 0, false
}
