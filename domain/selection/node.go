// Package selection resolves UI text selections inside a rendered node
// tree to plain-text character offsets.
package selection

import (
	"strings"
	"unicode/utf8"
)

// Node is a minimal rendered-markup tree: an element node carries
// children, a text node carries character content. It mirrors a passage
// rendered as plain text interleaved with highlight elements.
type Node struct {
	text     string
	children []*Node
	isText   bool
}

// NewTextNode creates a leaf node holding character content.
func NewTextNode(text string) *Node {
	return &Node{text: text, isText: true}
}

// NewElementNode creates an element node wrapping the given children.
func NewElementNode(children ...*Node) *Node {
	return &Node{children: children}
}

// IsText reports whether the node is a text leaf.
func (n *Node) IsText() bool { return n.isText }

// Text returns a text node's content; empty for element nodes.
func (n *Node) Text() string { return n.text }

// Children returns an element node's children.
func (n *Node) Children() []*Node { return n.children }

// TextContent returns the concatenated content of every text node under
// n in document order, markup boundaries ignored.
func (n *Node) TextContent() string {
	if n.isText {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// textLen returns the character length of TextContent without building
// the string.
func (n *Node) textLen() int {
	if n.isText {
		return utf8.RuneCountInString(n.text)
	}
	total := 0
	for _, c := range n.children {
		total += c.textLen()
	}
	return total
}
