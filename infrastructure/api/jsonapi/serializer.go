package jsonapi

import (
	"strconv"

	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/quiz"
)

// SessionAttributes represents the annotation session in JSON:API format.
type SessionAttributes struct {
	Step       string `json:"step"`
	Mode       string `json:"mode"`
	Theme      string `json:"theme"`
	Text       string `json:"text"`
	RangeCount int    `json:"range_count"`
	QuizActive bool   `json:"quiz_active"`
}

// RangeAttributes represents a highlight in JSON:API format. Offsets are
// rune-based and half-open.
type RangeAttributes struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
	Note  string `json:"note,omitempty"`
}

// SegmentAttributes represents one span of the segment sequence in
// JSON:API format. Kind is "plain" or "highlight".
type SegmentAttributes struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
	RangeID string `json:"range_id,omitempty"`
	Note    string `json:"note,omitempty"`
}

// QuizItemAttributes represents a quiz item in JSON:API format. The
// expected answer is included only once the item has been revealed.
type QuizItemAttributes struct {
	Input  string `json:"input"`
	State  string `json:"state"`
	Answer string `json:"answer,omitempty"`
}

// Serializer converts domain objects to JSON:API resources.
type Serializer struct{}

// NewSerializer creates a new Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// SessionResource builds the singleton session resource.
func (s *Serializer) SessionResource(attrs SessionAttributes) *Resource {
	return NewResource("session", "current", &attrs)
}

// RangeResource converts a highlight to a JSON:API resource.
func (s *Serializer) RangeResource(r annotation.Range) *Resource {
	attrs := &RangeAttributes{
		Start: r.Start(),
		End:   r.End(),
		Text:  r.Text(),
		Note:  r.Translation(),
	}
	return NewResource("range", r.ID(), attrs)
}

// RangeResources converts multiple highlights to JSON:API resources.
func (s *Serializer) RangeResources(ranges []annotation.Range) []*Resource {
	resources := make([]*Resource, len(ranges))
	for i, r := range ranges {
		resources[i] = s.RangeResource(r)
	}
	return resources
}

// SegmentResources converts a segment sequence to JSON:API resources.
// Segments have no identity of their own; the resource ID is the
// position in the sequence.
func (s *Serializer) SegmentResources(segments []annotation.Segment) []*Resource {
	resources := make([]*Resource, len(segments))
	for i, seg := range segments {
		attrs := &SegmentAttributes{
			Kind:    "plain",
			Content: seg.Content(),
		}
		if r, ok := seg.Range(); ok {
			attrs.Kind = "highlight"
			attrs.RangeID = r.ID()
			attrs.Note = r.Translation()
		}
		resources[i] = NewResource("segment", strconv.Itoa(i), attrs)
	}
	return resources
}

// QuizItemResource converts a quiz item to a JSON:API resource. The
// resource ID is the range the item quizzes.
func (s *Serializer) QuizItemResource(item quiz.Item) *Resource {
	attrs := &QuizItemAttributes{
		Input: item.Input(),
		State: string(item.State()),
	}
	if item.State() == quiz.StateIncorrectShown {
		attrs.Answer = item.Answer()
	}
	return NewResource("quiz_item", item.RangeID(), attrs)
}

// QuizItemResources converts multiple quiz items to JSON:API resources.
func (s *Serializer) QuizItemResources(items []quiz.Item) []*Resource {
	resources := make([]*Resource, len(items))
	for i, item := range items {
		resources[i] = s.QuizItemResource(item)
	}
	return resources
}
