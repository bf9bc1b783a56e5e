package outline

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/itsmostafa/mdtree/internal/document"
)

// ErrNoHeadings is returned when a document contains no heading lines.
var ErrNoHeadings = errors.New("no headings found")

// Heading is one entry of a document outline.
type Heading struct {
	// Text is the heading as displayed, with marker syntax removed.
	// It is captured at scan time and is not kept live.
	Text string
	// Level is the number of marker characters.
	Level int
	// Position tracks the start of the heading line across edits.
	Position *document.Marker
	// Document is the document the heading belongs to.
	Document document.ID
}

// Pos returns the current offset of the heading line, or -1 if released.
func (h Heading) Pos() int { return h.Position.Pos() }

var (
	markdownHeadingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.+)$`)
	orgHeadingPattern      = regexp.MustCompile(`^(\*+)[ \t]+(.*)$`)
	codeFencePattern       = regexp.MustCompile("^ {0,3}(\x60\x60\x60|~~~)")
	orgTagsPattern         = regexp.MustCompile(`[ \t]+:[[:alnum:]_@#%:]+:[ \t]*$`)

	markdown = goldmark.New()
)

// headingLine is a raw match of the heading pattern.
type headingLine struct {
	start int
	level int
	raw   string
	title string
}

// headingLines scans the full text of a document, top to bottom, for lines
// starting with the heading marker of kind.
func headingLines(src string, kind document.Kind) []headingLine {
	var pattern *regexp.Regexp
	switch kind {
	case document.KindMarkdown:
		pattern = markdownHeadingPattern
	case document.KindOrg:
		pattern = orgHeadingPattern
	default:
		return nil
	}

	var lines []headingLine
	inCodeBlock := false
	offset := 0
	for offset <= len(src) {
		end := strings.IndexByte(src[offset:], '\n')
		if end < 0 {
			end = len(src)
		} else {
			end += offset
		}
		line := strings.TrimSuffix(src[offset:end], "\r")

		if kind == document.KindMarkdown && codeFencePattern.MatchString(line) {
			inCodeBlock = !inCodeBlock
		} else if !inCodeBlock {
			if m := pattern.FindStringSubmatch(line); m != nil {
				lines = append(lines, headingLine{
					start: offset,
					level: len(m[1]),
					raw:   line,
					title: strings.TrimSpace(m[2]),
				})
			}
		}

		if end == len(src) {
			break
		}
		offset = end + 1
	}
	return lines
}

// Scan indexes every heading of doc in document order. Narrowing is ignored.
func Scan(doc *document.Document) ([]Heading, error) {
	lines := headingLines(doc.Text(), doc.Kind())
	if len(lines) == 0 {
		return nil, ErrNoHeadings
	}

	headings := make([]Heading, 0, len(lines))
	for _, l := range lines {
		headings = append(headings, Heading{
			Text:     displayText(l, doc.Kind()),
			Level:    l.level,
			Position: doc.NewMarker(l.start),
			Document: doc.ID(),
		})
	}
	return headings, nil
}

// Release detaches the markers of a heading list that is being replaced.
func Release(headings []Heading) {
	for _, h := range headings {
		h.Position.Release()
	}
}

func displayText(l headingLine, kind document.Kind) string {
	switch kind {
	case document.KindOrg:
		return strings.TrimSpace(orgTagsPattern.ReplaceAllString(l.title, ""))
	case document.KindMarkdown:
		if s := markdownInlineText(l.raw); s != "" {
			return s
		}
	}
	return l.title
}

// markdownInlineText parses a heading line and returns its inline content
// as plain text.
func markdownInlineText(line string) string {
	src := []byte(line)
	doc := markdown.Parser().Parse(text.NewReader(src))

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			var buf bytes.Buffer
			writeInlineText(&buf, h, src)
			return strings.TrimSpace(buf.String())
		}
	}
	return ""
}

func writeInlineText(buf *bytes.Buffer, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		case *ast.RawHTML:
			// Inline HTML is markup, not heading text.
		default:
			writeInlineText(buf, c, src)
		}
	}
}
