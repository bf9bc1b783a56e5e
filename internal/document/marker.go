package document

// Marker is a position that follows its text across edits made elsewhere
// in the document.
type Marker struct {
	doc     *Document
	pos     int
	advance bool
}

// NewMarker creates a marker at pos, clamped to the document.
func (d *Document) NewMarker(pos int) *Marker {
	m := &Marker{doc: d, pos: clamp(pos, 0, len(d.text))}
	d.markers[m] = struct{}{}
	return m
}

// Pos returns the current offset, or -1 once the marker is released.
func (m *Marker) Pos() int {
	if m == nil || m.doc == nil {
		return -1
	}
	return m.pos
}

// SetAdvance controls whether text inserted exactly at the marker ends up
// before it (true) or after it (false, the default).
func (m *Marker) SetAdvance(advance bool) { m.advance = advance }

// Release detaches the marker from its document.
func (m *Marker) Release() {
	if m == nil || m.doc == nil {
		return
	}
	delete(m.doc.markers, m)
	m.doc = nil
}

// adjust moves the marker for a splice replacing [start, end) with n bytes.
func (m *Marker) adjust(start, end, n int) {
	switch {
	case m.pos > end:
		m.pos += n - (end - start)
	case m.pos > start:
		m.pos = start
		if m.advance {
			m.pos += n
		}
	case m.pos == start:
		if m.advance {
			m.pos += n
		}
	}
}
