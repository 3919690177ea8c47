package service

import (
	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/quiz"
)

// QuizBoard drives the type-to-answer interaction for the play step. It
// holds one item per highlight, keyed by range id, and preserves text
// order for iteration.
type QuizBoard struct {
	items map[string]quiz.Item
	order []string
}

// NewQuizBoard builds a board with an unanswered item for every range.
// The answer each item grades against is the range's covered text.
func NewQuizBoard(ranges []annotation.Range) *QuizBoard {
	b := &QuizBoard{
		items: make(map[string]quiz.Item, len(ranges)),
		order: make([]string, 0, len(ranges)),
	}
	for _, r := range ranges {
		b.items[r.ID()] = quiz.NewItem(r.ID(), r.Text())
		b.order = append(b.order, r.ID())
	}
	return b
}

// Len returns the number of items on the board.
func (b *QuizBoard) Len() int {
	return len(b.items)
}

// Item returns the item for a range id.
func (b *QuizBoard) Item(rangeID string) (quiz.Item, bool) {
	item, ok := b.items[rangeID]
	return item, ok
}

// Items returns the items in text order.
func (b *QuizBoard) Items() []quiz.Item {
	out := make([]quiz.Item, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.items[id])
	}
	return out
}

// SetInput records a change to one item's input buffer.
func (b *QuizBoard) SetInput(rangeID, value string) (quiz.Item, error) {
	return b.apply(rangeID, func(item quiz.Item) quiz.Item {
		return item.SetInput(value)
	})
}

// Check grades one item's committed input.
func (b *QuizBoard) Check(rangeID string) (quiz.Item, error) {
	return b.apply(rangeID, quiz.Item.Check)
}

// Reveal shows one item's answer after a wrong attempt.
func (b *QuizBoard) Reveal(rangeID string) (quiz.Item, error) {
	return b.apply(rangeID, quiz.Item.Reveal)
}

// Reset returns one item to unanswered with an empty buffer.
func (b *QuizBoard) Reset(rangeID string) (quiz.Item, error) {
	return b.apply(rangeID, quiz.Item.Reset)
}

// apply runs one transition and stores the resulting item.
func (b *QuizBoard) apply(rangeID string, fn func(quiz.Item) quiz.Item) (quiz.Item, error) {
	item, ok := b.items[rangeID]
	if !ok {
		return quiz.Item{}, ErrQuizItemNotFound
	}
	item = fn(item)
	b.items[rangeID] = item
	return item, nil
}

// remove drops an item whose range was removed mid-quiz.
func (b *QuizBoard) remove(rangeID string) {
	if _, ok := b.items[rangeID]; !ok {
		return
	}
	delete(b.items, rangeID)
	for i, id := range b.order {
		if id == rangeID {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}
