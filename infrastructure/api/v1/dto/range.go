package dto

// HighlightRequest is the body of POST /api/v1/ranges. Offsets are
// rune-based and half-open; they may fall mid-word, the engine snaps
// them outward to word boundaries.
type HighlightRequest struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Note  string `json:"note,omitempty"`
}

// CaretData addresses one end of a selection in the rendered view: the
// index of a segment in the current sequence and a rune offset within
// that segment's text.
type CaretData struct {
	Segment int `json:"segment"`
	Offset  int `json:"offset"`
}

// SelectionRequest is the body of POST /api/v1/ranges/selection. Anchor
// and focus may arrive in either order.
type SelectionRequest struct {
	Anchor CaretData `json:"anchor"`
	Focus  CaretData `json:"focus"`
	Note   string    `json:"note,omitempty"`
}
