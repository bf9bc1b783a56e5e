package document

import (
	"path/filepath"
	"strings"
)

// Kind is the structured-text format of a document.
type Kind int

const (
	KindPlain Kind = iota
	KindMarkdown
	KindOrg
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMarkdown:
		return "markdown"
	case KindOrg:
		return "org"
	default:
		return "plain"
	}
}

// Supported reports whether documents of this kind have an outline.
func (k Kind) Supported() bool {
	return k == KindMarkdown || k == KindOrg
}

// DetectKind maps a file extension to a Kind.
func DetectKind(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return KindMarkdown
	case ".org":
		return KindOrg
	default:
		return KindPlain
	}
}
