package selection

import "unicode/utf8"

// Position addresses a point in a node tree. On a text node the offset
// counts characters into the node's content; on an element node it means
// "before child[offset]".
type Position struct {
	node   *Node
	offset int
}

// NewPosition creates a Position on node at offset.
func NewPosition(node *Node, offset int) Position {
	return Position{node: node, offset: offset}
}

// Node returns the addressed node.
func (p Position) Node() *Node { return p.node }

// Offset returns the offset within the node.
func (p Position) Offset() int { return p.offset }

// Selection is a pair of positions as reported by the host UI. Anchor
// and focus may arrive in either document order.
type Selection struct {
	anchor Position
	focus  Position
}

// NewSelection creates a Selection from its anchor and focus positions.
func NewSelection(anchor, focus Position) Selection {
	return Selection{anchor: anchor, focus: focus}
}

// Anchor returns the position where the selection started.
func (s Selection) Anchor() Position { return s.anchor }

// Focus returns the position where the selection ended.
func (s Selection) Focus() Position { return s.focus }

// Resolve maps a selection inside container to plain-text character
// offsets from the start of the container's text content. It returns
// ok == false when there is no usable selection: a nil node, a position
// outside the container, or a collapsed result. Word boundary snapping
// is the caller's concern, applied to the returned offsets.
func Resolve(container *Node, sel Selection) (start, end int, ok bool) {
	if container == nil || sel.anchor.node == nil || sel.focus.node == nil {
		return 0, 0, false
	}
	a, ok := resolvePosition(container, sel.anchor)
	if !ok {
		return 0, 0, false
	}
	b, ok := resolvePosition(container, sel.focus)
	if !ok {
		return 0, 0, false
	}
	if a > b {
		a, b = b, a
	}
	if a == b {
		return 0, 0, false
	}
	return a, b, true
}

// resolvePosition walks container in document order, accumulating the
// character length of every text node preceding the position. It reports
// false when the position's node is not in the tree.
func resolvePosition(container *Node, pos Position) (int, bool) {
	acc := 0
	var walk func(n *Node) bool
	walk = func(n *Node) bool {
		if n == pos.node {
			acc += pos.localOffset()
			return true
		}
		if n.isText {
			acc += utf8.RuneCountInString(n.text)
			return false
		}
		for _, c := range n.children {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(container) {
		return 0, false
	}
	return acc, true
}

// localOffset converts the position's node-relative offset to the count
// of text characters preceding it inside the node. Offsets beyond the
// node are clamped.
func (p Position) localOffset() int {
	off := p.offset
	if off < 0 {
		off = 0
	}
	if p.node.isText {
		if l := utf8.RuneCountInString(p.node.text); off > l {
			off = l
		}
		return off
	}
	if off > len(p.node.children) {
		off = len(p.node.children)
	}
	total := 0
	for i := 0; i < off; i++ {
		total += p.node.children[i].textLen()
	}
	return total
}
