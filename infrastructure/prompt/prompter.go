// Package prompt provides the note prompt mechanisms consulted when a
// highlight is created without a note.
package prompt

import "context"

// NotePrompter supplies the optional note for a highlight candidate. ok
// reports whether a usable note was produced. Callers treat failures as
// "no note"; a prompter never blocks a highlight from being committed.
type NotePrompter interface {
	RequestNote(ctx context.Context, candidate string) (note string, ok bool, err error)
}

// Static always answers with the same note.
type Static struct {
	note string
}

// NewStatic creates a Static prompter.
func NewStatic(note string) Static {
	return Static{note: note}
}

// RequestNote returns the fixed note.
func (s Static) RequestNote(context.Context, string) (string, bool, error) {
	return s.note, true, nil
}

// Func adapts a closure into a NotePrompter.
type Func func(ctx context.Context, candidate string) (string, bool, error)

// RequestNote calls the wrapped closure.
func (f Func) RequestNote(ctx context.Context, candidate string) (string, bool, error) {
	return f(ctx, candidate)
}

var (
	_ NotePrompter = Static{}
	_ NotePrompter = Func(nil)
)
