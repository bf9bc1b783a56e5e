package outline

import (
	"encoding/json"
	"fmt"

	"github.com/xlab/treeprint"

	"github.com/itsmostafa/mdtree/internal/document"
)

// TreeNode represents a heading with its nested subheadings.
type TreeNode struct {
	Title    string      `json:"title"`
	NodeID   string      `json:"node_id,omitempty"`
	Level    int         `json:"level"`
	LineNum  int         `json:"line_num"`
	Children []*TreeNode `json:"nodes,omitempty"`
}

// Outline is the serializable outline of one document.
type Outline struct {
	Name      string      `json:"doc_name"`
	Kind      string      `json:"doc_kind"`
	Structure []*TreeNode `json:"structure"`
}

// String returns a JSON representation of the Outline.
func (o *Outline) String() string {
	b, _ := json.MarshalIndent(o, "", "  ")
	return string(b)
}

// Build scans doc and nests its headings by level.
func Build(doc *document.Document) (*Outline, error) {
	headings, err := Scan(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", doc.Name(), err)
	}
	defer Release(headings)

	tree := BuildTree(doc, headings)
	WriteNodeIDs(tree)

	return &Outline{
		Name:      doc.Name(),
		Kind:      doc.Kind().String(),
		Structure: tree,
	}, nil
}

// BuildTree nests a flat heading list by level.
func BuildTree(doc *document.Document, headings []Heading) []*TreeNode {
	if len(headings) == 0 {
		return nil
	}

	type stackEntry struct {
		node  *TreeNode
		level int
	}

	var stack []stackEntry
	var rootNodes []*TreeNode

	for _, h := range headings {
		treeNode := &TreeNode{
			Title:   h.Text,
			Level:   h.Level,
			LineNum: doc.LineAt(h.Pos()) + 1,
		}

		// Pop stack until we find parent
		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			rootNodes = append(rootNodes, treeNode)
		} else {
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, treeNode)
		}

		stack = append(stack, stackEntry{node: treeNode, level: h.Level})
	}

	return rootNodes
}

// WriteNodeIDs assigns sequential zero-padded IDs in document order.
func WriteNodeIDs(nodes []*TreeNode) int {
	counter := 0
	var assign func([]*TreeNode)
	assign = func(children []*TreeNode) {
		for _, node := range children {
			node.NodeID = fmt.Sprintf("%04d", counter)
			counter++
			if node.Children != nil {
				assign(node.Children)
			}
		}
	}
	assign(nodes)
	return counter
}

// PrintTOC renders the outline as an indented tree.
func PrintTOC(o *Outline) string {
	root := treeprint.NewWithRoot(o.Name)
	var add func(treeprint.Tree, []*TreeNode)
	add = func(branch treeprint.Tree, nodes []*TreeNode) {
		for _, node := range nodes {
			if len(node.Children) == 0 {
				branch.AddMetaNode(node.LineNum, node.Title)
				continue
			}
			add(branch.AddMetaBranch(node.LineNum, node.Title), node.Children)
		}
	}
	add(root, o.Structure)
	return root.String()
}
