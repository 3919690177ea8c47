package annotation

// Reason classifies why a candidate interval was not committed.
type Reason string

// Reason values.
const (
	ReasonEmptyInterval Reason = "empty_interval"
	ReasonOutOfBounds   Reason = "out_of_bounds"
	ReasonOverlap       Reason = "overlap"
)

// Rejection is the expected, user-correctable outcome of an interval that
// cannot be committed. It is a result value, not an error: a nil
// *Rejection means the operation succeeded.
type Rejection struct {
	reason Reason
}

// Reject creates a Rejection with the given reason.
func Reject(reason Reason) *Rejection {
	return &Rejection{reason: reason}
}

// Reason returns the rejection's reason code.
func (r *Rejection) Reason() Reason { return r.reason }

// String returns a short human-readable description.
func (r *Rejection) String() string {
	switch r.reason {
	case ReasonEmptyInterval:
		return "selection is empty"
	case ReasonOutOfBounds:
		return "interval is out of bounds"
	case ReasonOverlap:
		return "interval overlaps an existing highlight"
	default:
		return string(r.reason)
	}
}
