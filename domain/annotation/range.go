// Package annotation maintains the set of highlighted ranges over a
// source text and derives the segment sequence used for rendering.
package annotation

// Range is a committed highlight over the source text. Offsets are in
// characters, half-open and zero-based; the covered text is snapshotted
// at creation and never recomputed.
type Range struct {
	id          string
	start       int
	end         int
	text        string
	translation string
}

// NewRange creates a Range. Store.Add is the validating entry point;
// this constructor trusts its inputs.
func NewRange(id string, start, end int, text, translation string) Range {
	return Range{
		id:          id,
		start:       start,
		end:         end,
		text:        text,
		translation: translation,
	}
}

// ID returns the identifier, stable for the range's lifetime.
func (r Range) ID() string { return r.id }

// Start returns the first covered character offset.
func (r Range) Start() int { return r.start }

// End returns the offset one past the last covered character.
func (r Range) End() int { return r.end }

// Text returns the covered text as captured when the range was created.
func (r Range) Text() string { return r.text }

// Translation returns the optional note attached at creation.
func (r Range) Translation() string { return r.translation }

// Overlaps reports whether r and other share at least one covered
// character. Touching endpoints do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.start < other.end && other.start < r.end
}
