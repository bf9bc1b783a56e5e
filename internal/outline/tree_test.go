package outline

import (
	"errors"
	"strings"
	"testing"

	"github.com/itsmostafa/mdtree/internal/document"
)

func TestBuildTree(t *testing.T) {
	t.Run("nested structure", func(t *testing.T) {
		doc := document.New("guide.md", document.KindMarkdown, "# One\n## One.A\n### deep\n## One.B\n# Two\n")
		o, err := Build(doc)
		if err != nil {
			t.Fatal(err)
		}
		if len(o.Structure) != 2 {
			t.Fatalf("expected 2 root nodes, got %d", len(o.Structure))
		}
		if len(o.Structure[0].Children) != 2 {
			t.Errorf("expected One to have 2 children, got %d", len(o.Structure[0].Children))
		}
		if o.Structure[0].Children[0].Children[0].Title != "deep" {
			t.Error("expected deep nesting under One.A")
		}
		if o.Structure[1].LineNum != 5 {
			t.Errorf("expected Two on line 5, got %d", o.Structure[1].LineNum)
		}
		if o.Structure[1].NodeID != "0004" {
			t.Errorf("expected node id 0004, got %q", o.Structure[1].NodeID)
		}
	})

	t.Run("skipped levels", func(t *testing.T) {
		doc := document.New("t.org", document.KindOrg, "*** deep\n* top\n")
		o, err := Build(doc)
		if err != nil {
			t.Fatal(err)
		}
		if len(o.Structure) != 2 {
			t.Errorf("expected 2 root nodes, got %d", len(o.Structure))
		}
	})

	t.Run("no headings", func(t *testing.T) {
		_, err := Build(document.New("t.md", document.KindMarkdown, "text"))
		if !errors.Is(err, ErrNoHeadings) {
			t.Errorf("expected ErrNoHeadings, got %v", err)
		}
	})
}

func TestPrintTOC(t *testing.T) {
	doc := document.New("guide.md", document.KindMarkdown, "# One\n## Child\n# Two\n")
	o, err := Build(doc)
	if err != nil {
		t.Fatal(err)
	}
	out := PrintTOC(o)
	for _, want := range []string{"guide.md", "One", "Child", "Two"} {
		if !strings.Contains(out, want) {
			t.Errorf("TOC missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(o.String(), `"doc_kind": "markdown"`) {
		t.Errorf("JSON missing kind:\n%s", o.String())
	}
}
