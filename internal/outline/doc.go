// Package outline indexes the headings of structured text documents.
//
// Markdown headings are lines starting with one to six '#' characters and
// Org headings are lines starting with one or more '*' characters, each
// followed by whitespace. Markdown lines inside fenced code blocks are not
// headings.
//
// # Positions and ordinals
//
// Each Heading carries a document.Marker at the start of its line, so the
// position stays valid while the document is edited before it. The display
// text is captured at scan time and must be refreshed by rescanning.
//
// Which heading contains a position is answered by LocateOrdinal, which
// counts heading lines from the start of the document on every call.
// Headings with identical text are therefore told apart by rank alone, and
// no rank survives an edit.
//
// # Usage
//
//	headings, err := outline.Scan(doc)
//	n := outline.LocateOrdinal(doc, doc.Point())
//	pos, err := outline.GoToOrdinal(doc, n)
package outline
