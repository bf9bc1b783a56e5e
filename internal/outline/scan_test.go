package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsmostafa/mdtree/internal/document"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name   string
		kind   document.Kind
		input  string
		titles []string
		levels []int
	}{
		{
			name:   "markdown levels",
			kind:   document.KindMarkdown,
			input:  "# One\ntext\n## Two\n### Three\n# Four\n",
			titles: []string{"One", "Two", "Three", "Four"},
			levels: []int{1, 2, 3, 1},
		},
		{
			name:   "markdown inline markup",
			kind:   document.KindMarkdown,
			input:  "# **Bold** and `code`\n## [Link](http://x) ##\n",
			titles: []string{"Bold and code", "Link"},
			levels: []int{1, 2},
		},
		{
			name:   "markdown code fence skipped",
			kind:   document.KindMarkdown,
			input:  "# Real\n```sh\n# comment\n```\n## After\n",
			titles: []string{"Real", "After"},
			levels: []int{1, 2},
		},
		{
			name:   "markdown requires space",
			kind:   document.KindMarkdown,
			input:  "#tag\n# Real\n",
			titles: []string{"Real"},
			levels: []int{1},
		},
		{
			name:   "markdown not indented",
			kind:   document.KindMarkdown,
			input:  "  # indented\n# Real\n",
			titles: []string{"Real"},
			levels: []int{1},
		},
		{
			name:   "org with tags",
			kind:   document.KindOrg,
			input:  "* TODO Task :work:urgent:\n** Sub\n*bold* text\n",
			titles: []string{"TODO Task", "Sub"},
			levels: []int{1, 2},
		},
		{
			name:   "duplicate headings kept",
			kind:   document.KindMarkdown,
			input:  "# Notes\n# Notes\n",
			titles: []string{"Notes", "Notes"},
			levels: []int{1, 1},
		},
		{
			name:   "no trailing newline",
			kind:   document.KindOrg,
			input:  "* Last",
			titles: []string{"Last"},
			levels: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.New("t", tt.kind, tt.input)
			headings, err := Scan(doc)
			if err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(headings) != len(tt.titles) {
				t.Fatalf("expected %d headings, got %d", len(tt.titles), len(headings))
			}
			prev := -1
			for i, h := range headings {
				if h.Text != tt.titles[i] {
					t.Errorf("heading %d text = %q, want %q", i, h.Text, tt.titles[i])
				}
				if h.Level != tt.levels[i] {
					t.Errorf("heading %d level = %d, want %d", i, h.Level, tt.levels[i])
				}
				if h.Document != doc.ID() {
					t.Errorf("heading %d has wrong document", i)
				}
				if h.Pos() <= prev {
					t.Errorf("heading %d out of document order", i)
				}
				if doc.LineStart(h.Pos()) != h.Pos() {
					t.Errorf("heading %d not at a line start", i)
				}
				prev = h.Pos()
			}
		})
	}
}

func TestScanCountsMarkerLines(t *testing.T) {
	var sb strings.Builder
	want := 0
	for i := 0; i < 50; i++ {
		if i%3 == 0 {
			sb.WriteString("## heading\n")
			want++
		} else {
			sb.WriteString("plain line\n")
		}
	}
	headings, err := Scan(document.New("t.md", document.KindMarkdown, sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(headings) != want {
		t.Errorf("expected %d headings, got %d", want, len(headings))
	}
}

func TestScanNoHeadings(t *testing.T) {
	tests := []struct {
		name string
		kind document.Kind
		text string
	}{
		{"empty", document.KindMarkdown, ""},
		{"prose only", document.KindMarkdown, "just text\nmore text\n"},
		{"only in code", document.KindMarkdown, "```\n# not a heading\n```\n"},
		{"plain kind", document.KindPlain, "# looks like one\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(document.New("t", tt.kind, tt.text))
			if !errors.Is(err, ErrNoHeadings) {
				t.Errorf("expected ErrNoHeadings, got %v", err)
			}
		})
	}
}

func TestScanIgnoresNarrowing(t *testing.T) {
	doc := document.New("t.md", document.KindMarkdown, "# A\nbody\n# B\n")
	doc.Narrow(4, 9)
	headings, err := Scan(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(headings) != 2 {
		t.Errorf("expected 2 headings while narrowed, got %d", len(headings))
	}
}

func TestHeadingPositionSurvivesEdits(t *testing.T) {
	doc := document.New("t.md", document.KindMarkdown, "# A\nbody\n# B\n")
	headings, err := Scan(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := doc.Insert(5, "more words "); err != nil {
		t.Fatal(err)
	}
	if got := doc.Text()[headings[1].Pos():]; got != "# B\n" {
		t.Errorf("second heading marker points at %q", got)
	}

	Release(headings)
	if headings[0].Pos() != -1 {
		t.Error("released heading should report -1")
	}
}
