// Package quiz provides the per-range answer state machine used by the
// play view's type-to-answer mode.
package quiz

import "strings"

// State represents where an item stands in the answer cycle.
type State string

// State values.
const (
	StateUnanswered      State = "unanswered"
	StateCorrect         State = "correct"
	StateIncorrectHidden State = "incorrect_hidden"
	StateIncorrectShown  State = "incorrect_shown"
)

// IsGraded returns true once an attempt has been judged.
func (s State) IsGraded() bool {
	return s == StateCorrect || s == StateIncorrectHidden || s == StateIncorrectShown
}

// Item tracks one highlighted range through the quiz. The answer is the
// range's covered text, fixed at construction; the input buffer holds
// whatever the user has typed since the last reset.
type Item struct {
	rangeID string
	answer  string
	input   string
	state   State
}

// NewItem creates an unanswered Item for the given range.
func NewItem(rangeID, answer string) Item {
	return Item{rangeID: rangeID, answer: answer, state: StateUnanswered}
}

// RangeID returns the id of the range this item quizzes.
func (i Item) RangeID() string { return i.rangeID }

// Answer returns the expected text.
func (i Item) Answer() string { return i.answer }

// Input returns the current input buffer.
func (i Item) Input() string { return i.input }

// State returns the current state.
func (i Item) State() State { return i.state }

// SetInput records the working buffer and clears any prior judgment;
// grading waits for the next Check.
func (i Item) SetInput(value string) Item {
	i.input = value
	i.state = StateUnanswered
	return i
}

// Check grades the committed input against the answer. Any input,
// including empty, is a checkable attempt.
func (i Item) Check() Item {
	if Match(i.input, i.answer) {
		i.state = StateCorrect
	} else {
		i.state = StateIncorrectHidden
	}
	return i
}

// Reveal shows the answer after a wrong attempt. In any other state it is
// a no-op.
func (i Item) Reveal() Item {
	if i.state != StateIncorrectHidden {
		return i
	}
	i.state = StateIncorrectShown
	return i
}

// Reset clears the buffer and returns the item to unanswered. It is
// available from every state.
func (i Item) Reset() Item {
	i.input = ""
	i.state = StateUnanswered
	return i
}

// Match reports whether input and answer agree, ignoring case and
// surrounding whitespace.
func Match(input, answer string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(answer))
}
