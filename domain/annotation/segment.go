package annotation

import (
	"sort"

	"github.com/glossalab/glossa/domain/passage"
)

// Segment is a derived span of the source text: plain filler or the
// rendering of one highlighted Range. Segment sequences are recomputed on
// demand and are never a source of truth.
type Segment struct {
	content   string
	rng       Range
	highlight bool
}

// PlainSegment creates a segment of unhighlighted text.
func PlainSegment(content string) Segment {
	return Segment{content: content}
}

// HighlightSegment creates a segment rendering r.
func HighlightSegment(content string, r Range) Segment {
	return Segment{content: content, rng: r, highlight: true}
}

// Content returns the covered text.
func (s Segment) Content() string { return s.content }

// IsHighlight reports whether the segment renders a committed range.
func (s Segment) IsHighlight() bool { return s.highlight }

// Range returns the rendered range when IsHighlight is true.
func (s Segment) Range() (Range, bool) { return s.rng, s.highlight }

// SegmentText partitions text into the ordered sequence of plain and
// highlight segments covering it exactly once, with no gaps and no
// overlaps. Every rendering surface consumes this one function, so the
// editing and play views stay in lockstep.
//
// Malformed input cannot crash it: a range starting behind the cursor is
// skipped and a range ending past the text is clamped.
func SegmentText(text passage.Text, ranges []Range) []Segment {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	var segments []Segment
	cursor := 0
	n := text.Len()
	for _, r := range sorted {
		start, end := r.start, r.end
		if start < cursor {
			continue
		}
		if start > n {
			start = n
		}
		if end > n {
			end = n
		}
		if start > cursor {
			segments = append(segments, PlainSegment(text.Slice(cursor, start)))
		}
		segments = append(segments, HighlightSegment(text.Slice(start, end), r))
		cursor = end
	}
	if cursor < n {
		segments = append(segments, PlainSegment(text.Slice(cursor, n)))
	}
	return segments
}
