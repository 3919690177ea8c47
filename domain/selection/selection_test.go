package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FlatText(t *testing.T) {
	text := NewTextNode("The quick brown fox")
	container := NewElementNode(text)

	start, end, ok := Resolve(container, NewSelection(
		NewPosition(text, 4),
		NewPosition(text, 6),
	))

	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 6, end)
}

func TestResolve_OrdersAnchorAndFocus(t *testing.T) {
	text := NewTextNode("The quick brown fox")
	container := NewElementNode(text)

	start, end, ok := Resolve(container, NewSelection(
		NewPosition(text, 6),
		NewPosition(text, 4),
	))

	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 6, end)
}

func TestResolve_CollapsedSelection(t *testing.T) {
	text := NewTextNode("The quick brown fox")
	container := NewElementNode(text)

	_, _, ok := Resolve(container, NewSelection(
		NewPosition(text, 4),
		NewPosition(text, 4),
	))

	assert.False(t, ok)
}

func TestResolve_NilInputs(t *testing.T) {
	text := NewTextNode("abc")
	container := NewElementNode(text)
	sel := NewSelection(NewPosition(text, 0), NewPosition(text, 2))

	_, _, ok := Resolve(nil, sel)
	assert.False(t, ok, "nil container")

	_, _, ok = Resolve(container, NewSelection(Position{}, NewPosition(text, 2)))
	assert.False(t, ok, "nil anchor node")

	_, _, ok = Resolve(container, NewSelection(NewPosition(text, 0), Position{}))
	assert.False(t, ok, "nil focus node")
}

func TestResolve_NodeOutsideContainer(t *testing.T) {
	text := NewTextNode("The quick brown fox")
	container := NewElementNode(text)
	stray := NewTextNode("elsewhere")

	_, _, ok := Resolve(container, NewSelection(
		NewPosition(stray, 0),
		NewPosition(text, 4),
	))

	assert.False(t, ok)
}

// rendered builds "The quick brown fox" the way the edit view renders it
// once "quick" is highlighted: plain text, a highlight element wrapping a
// text node, plain text.
func rendered() (container *Node, lead, quick, tail *Node) {
	lead = NewTextNode("The ")
	quick = NewTextNode("quick")
	tail = NewTextNode(" brown fox")
	container = NewElementNode(lead, NewElementNode(quick), tail)
	return container, lead, quick, tail
}

func TestResolve_WalksEmbeddedMarkup(t *testing.T) {
	container, _, quick, tail := rendered()

	start, end, ok := Resolve(container, NewSelection(
		NewPosition(quick, 2),
		NewPosition(tail, 3),
	))

	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 12, end)
}

func TestResolve_MarkupMatchesFlatText(t *testing.T) {
	// Offsets inside a rendered tree must match offsets in the flat text.
	container, _, quick, _ := rendered()
	flat := NewTextNode(container.TextContent())
	flatContainer := NewElementNode(flat)

	nestedStart, nestedEnd, ok := Resolve(container, NewSelection(
		NewPosition(quick, 0),
		NewPosition(quick, 5),
	))
	require.True(t, ok)

	flatStart, flatEnd, ok := Resolve(flatContainer, NewSelection(
		NewPosition(flat, 4),
		NewPosition(flat, 9),
	))
	require.True(t, ok)

	assert.Equal(t, flatStart, nestedStart)
	assert.Equal(t, flatEnd, nestedEnd)
}

func TestResolve_ElementPositions(t *testing.T) {
	// An element position means "before child[offset]".
	container, _, _, _ := rendered()

	start, end, ok := Resolve(container, NewSelection(
		NewPosition(container, 1),
		NewPosition(container, 2),
	))

	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 9, end)
}

func TestResolve_ClampsOffsets(t *testing.T) {
	text := NewTextNode("abc")
	container := NewElementNode(text)

	start, end, ok := Resolve(container, NewSelection(
		NewPosition(text, -2),
		NewPosition(text, 99),
	))

	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 3, end)
}

func TestResolve_CountsCharactersNotBytes(t *testing.T) {
	text := NewTextNode("café au lait")
	container := NewElementNode(text)

	start, end, ok := Resolve(container, NewSelection(
		NewPosition(text, 0),
		NewPosition(text, 4),
	))

	require.True(t, ok)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)
}

func TestResolve_ContainerIsTextNode(t *testing.T) {
	text := NewTextNode("plain")

	start, end, ok := Resolve(text, NewSelection(
		NewPosition(text, 1),
		NewPosition(text, 4),
	))

	require.True(t, ok)
	assert.Equal(t, 1, start)
	assert.Equal(t, 4, end)
}
