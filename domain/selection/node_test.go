package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextNode(t *testing.T) {
	n := NewTextNode("hello")

	assert.True(t, n.IsText())
	assert.Equal(t, "hello", n.Text())
	assert.Empty(t, n.Children())
}

func TestElementNode(t *testing.T) {
	a := NewTextNode("a")
	b := NewTextNode("b")
	n := NewElementNode(a, b)

	assert.False(t, n.IsText())
	assert.Equal(t, "", n.Text())
	assert.Len(t, n.Children(), 2)
}

func TestTextContent_FlattensMarkup(t *testing.T) {
	// "The quick brown fox" with "quick" wrapped in a highlight element.
	tree := NewElementNode(
		NewTextNode("The "),
		NewElementNode(NewTextNode("quick")),
		NewTextNode(" brown fox"),
	)

	assert.Equal(t, "The quick brown fox", tree.TextContent())
}

func TestTextContent_DeeplyNested(t *testing.T) {
	tree := NewElementNode(
		NewElementNode(
			NewTextNode("a"),
			NewElementNode(NewTextNode("b"), NewTextNode("c")),
		),
		NewTextNode("d"),
	)

	assert.Equal(t, "abcd", tree.TextContent())
}

func TestTextContent_EmptyElement(t *testing.T) {
	assert.Equal(t, "", NewElementNode().TextContent())
}
