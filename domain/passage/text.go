// Package passage provides the source text value object and the word
// boundary rules used to snap selections to whole words.
package passage

// Text is an immutable source text. Offsets into a Text are measured in
// characters (runes), never bytes, half-open and zero-based.
type Text struct {
	value string
	runes []rune
}

// NewText creates a Text from a raw string.
func NewText(value string) Text {
	return Text{value: value, runes: []rune(value)}
}

// String returns the original text.
func (t Text) String() string { return t.value }

// Len returns the length in characters.
func (t Text) Len() int { return len(t.runes) }

// IsEmpty reports whether the text has no characters.
func (t Text) IsEmpty() bool { return len(t.runes) == 0 }

// At returns the character at offset i. The caller keeps i in bounds.
func (t Text) At(i int) rune { return t.runes[i] }

// Slice returns the text covering [start, end) in character offsets.
// Bounds are clamped to the text so a stale interval cannot panic.
func (t Text) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(t.runes) {
		end = len(t.runes)
	}
	if start >= end {
		return ""
	}
	return string(t.runes[start:end])
}
