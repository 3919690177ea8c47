package annotation

import (
	"sort"

	"github.com/lithammer/shortuuid/v4"

	"github.com/glossalab/glossa/domain/passage"
)

// Store owns the committed ranges of one session, kept pairwise
// non-overlapping and ordered by start. It is not safe for concurrent
// use; callers serialize access.
type Store struct {
	ranges []Range
	newID  func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDGenerator overrides how range identifiers are drawn. The only
// contract is uniqueness within a session.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{newID: shortuuid.New}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates the candidate interval against text and the existing
// ranges and commits it when clean. A non-nil Rejection reports the
// expected failure modes; the store never changes on rejection.
func (s *Store) Add(start, end int, text passage.Text, translation string) (Range, *Rejection) {
	if start >= end {
		return Range{}, Reject(ReasonEmptyInterval)
	}
	if start < 0 || end > text.Len() {
		return Range{}, Reject(ReasonOutOfBounds)
	}
	candidate := Range{start: start, end: end}
	for _, existing := range s.ranges {
		if existing.Overlaps(candidate) {
			return Range{}, Reject(ReasonOverlap)
		}
	}

	r := NewRange(s.newID(), start, end, text.Slice(start, end), translation)
	i := sort.Search(len(s.ranges), func(i int) bool { return s.ranges[i].start >= r.start })
	s.ranges = append(s.ranges, Range{})
	copy(s.ranges[i+1:], s.ranges[i:])
	s.ranges[i] = r
	return r, nil
}

// Remove deletes the range with the given id and reports whether one was
// present. Removing an unknown id is a no-op, not an error.
func (s *Store) Remove(id string) bool {
	for i, r := range s.ranges {
		if r.id == id {
			s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the range with the given id.
func (s *Store) Get(id string) (Range, bool) {
	for _, r := range s.ranges {
		if r.id == id {
			return r, true
		}
	}
	return Range{}, false
}

// List returns the ranges ascending by start.
func (s *Store) List() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Len returns the number of committed ranges.
func (s *Store) Len() int { return len(s.ranges) }

// Clear drops every range.
func (s *Store) Clear() {
	s.ranges = nil
}
