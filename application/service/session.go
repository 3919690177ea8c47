// Package service hosts the application session that orchestrates the
// annotation engine for every serving surface.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/passage"
	"github.com/glossalab/glossa/domain/quiz"
	"github.com/glossalab/glossa/domain/selection"
	"github.com/glossalab/glossa/infrastructure/prompt"
	"github.com/glossalab/glossa/internal/config"
)

// Step is the wizard position: text entry, highlight selection, or play.
type Step string

// Wizard steps in forward order.
const (
	StepInput  Step = "input"
	StepSelect Step = "select"
	StepPlay   Step = "play"
)

// PlayMode selects how the play step treats highlights: reveal notes on
// hover, or quiz the reader on the hidden text.
type PlayMode string

// Play submodes.
const (
	ModeHover PlayMode = "hover"
	ModeQuiz  PlayMode = "quiz"
)

// Session is the whole in-memory application state: the source text, its
// highlights, the wizard position, the play submode, and the theme. All
// mutation flows through its methods. A Session is not safe for
// concurrent use; the owning client serializes access.
type Session struct {
	text     passage.Text
	store    *annotation.Store
	step     Step
	mode     PlayMode
	theme    string
	board    *QuizBoard
	prompter prompt.NotePrompter
	logger   *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithIDGenerator overrides the highlight id generator.
func WithIDGenerator(gen func() string) SessionOption {
	return func(s *Session) {
		s.store = annotation.NewStore(annotation.WithIDGenerator(gen))
	}
}

// WithNotePrompter installs the prompter consulted when a highlight is
// created without a note.
func WithNotePrompter(p prompt.NotePrompter) SessionOption {
	return func(s *Session) {
		s.prompter = p
	}
}

// WithTheme sets the starting theme name.
func WithTheme(name string) SessionOption {
	return func(s *Session) {
		if name != "" {
			s.theme = name
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates an empty session at the text entry step, in hover
// mode, with the default theme.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		store:  annotation.NewStore(),
		step:   StepInput,
		mode:   ModeHover,
		theme:  config.DefaultTheme,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Text returns the current source text.
func (s *Session) Text() passage.Text {
	return s.text
}

// SetText installs raw as the new source text, discarding every highlight
// and any quiz in progress. Offsets never survive a text change. The
// wizard moves to the select step, or back to text entry when the new
// text is empty. Mode and theme persist.
func (s *Session) SetText(raw string) {
	s.text = passage.NewText(raw)
	s.store.Clear()
	s.board = nil
	if s.text.IsEmpty() {
		s.step = StepInput
	} else {
		s.step = StepSelect
	}
}

// Step returns the wizard position.
func (s *Session) Step() Step {
	return s.step
}

// Next advances the wizard one step. Leaving text entry requires text to
// be set. At the play step there is nowhere further to go and Next
// reports the current step unchanged.
func (s *Session) Next() (Step, error) {
	switch s.step {
	case StepInput:
		if s.text.IsEmpty() {
			return s.step, ErrNoSession
		}
		s.step = StepSelect
	case StepSelect:
		s.step = StepPlay
		s.syncBoard()
	}
	return s.step, nil
}

// Back moves the wizard one step back, discarding quiz state when it
// leaves play. At text entry it stays put. Text and highlights persist.
func (s *Session) Back() Step {
	switch s.step {
	case StepPlay:
		s.step = StepSelect
		s.syncBoard()
	case StepSelect:
		s.step = StepInput
	}
	return s.step
}

// Mode returns the play submode.
func (s *Session) Mode() PlayMode {
	return s.mode
}

// SetMode selects the play submode. Switching to quiz inside the play
// step builds a fresh board over the current highlights; switching away
// discards it. Setting the current mode again changes nothing.
func (s *Session) SetMode(m PlayMode) error {
	if m != ModeHover && m != ModeQuiz {
		return fmt.Errorf("glossa: unknown play mode %q", m)
	}
	if m == s.mode {
		return nil
	}
	s.mode = m
	s.syncBoard()
	return nil
}

// Theme returns the theme name. The session stores it as opaque data;
// resolving it into styles is the presentation layer's concern.
func (s *Session) Theme() string {
	return s.theme
}

// SetTheme stores a theme name. Empty names are ignored.
func (s *Session) SetTheme(name string) {
	if name != "" {
		s.theme = name
	}
}

// Highlight snaps [start, end) to word boundaries and commits the result
// as a new highlight. When no note is supplied the prompter, if any, is
// consulted with the snapped text; prompt failures degrade to an empty
// note and never block the highlight. A nil rejection means success.
func (s *Session) Highlight(ctx context.Context, start, end int, note string) (annotation.Range, *annotation.Rejection) {
	start, end = passage.Expand(s.text, start, end)
	if start == end {
		return annotation.Range{}, annotation.Reject(annotation.ReasonEmptyInterval)
	}
	if note == "" && s.prompter != nil {
		note = s.promptNote(ctx, s.text.Slice(start, end))
	}
	r, rej := s.store.Add(start, end, s.text, note)
	if rej != nil {
		s.logger.DebugContext(ctx, "highlight rejected", "reason", string(rej.Reason()), "start", start, "end", end)
		return annotation.Range{}, rej
	}
	s.logger.DebugContext(ctx, "highlight added", "id", r.ID(), "start", r.Start(), "end", r.End())
	return r, nil
}

// HighlightSelection runs the full selection pipeline: resolve the
// selection against container, snap to word boundaries, commit. A
// selection that does not resolve is rejected like an empty interval.
func (s *Session) HighlightSelection(ctx context.Context, container *selection.Node, sel selection.Selection, note string) (annotation.Range, *annotation.Rejection) {
	start, end, ok := selection.Resolve(container, sel)
	if !ok {
		return annotation.Range{}, annotation.Reject(annotation.ReasonEmptyInterval)
	}
	return s.Highlight(ctx, start, end, note)
}

// Remove deletes the highlight with the given id and reports whether it
// existed. Unknown ids are a no-op. An active quiz drops the
// corresponding item.
func (s *Session) Remove(id string) bool {
	removed := s.store.Remove(id)
	if removed && s.board != nil {
		s.board.remove(id)
	}
	return removed
}

// Ranges returns the highlights in ascending start order.
func (s *Session) Ranges() []annotation.Range {
	return s.store.List()
}

// RangeCount returns the number of highlights.
func (s *Session) RangeCount() int {
	return s.store.Len()
}

// Segments derives the segment sequence for the current text and
// highlights. It is recomputed on every call, never stored.
func (s *Session) Segments() []annotation.Segment {
	return annotation.SegmentText(s.text, s.store.List())
}

// StartQuiz jumps the session into the play step with the quiz submode,
// building a fresh board over the current highlights.
func (s *Session) StartQuiz() (*QuizBoard, error) {
	if s.text.IsEmpty() {
		return nil, ErrNoSession
	}
	s.mode = ModeQuiz
	s.step = StepPlay
	s.board = NewQuizBoard(s.store.List())
	return s.board, nil
}

// Quiz returns the live board, or nil outside the play step's quiz
// submode.
func (s *Session) Quiz() *QuizBoard {
	return s.board
}

// QuizItems returns the quiz items in text order.
func (s *Session) QuizItems() ([]quiz.Item, error) {
	board, err := s.quizBoard()
	if err != nil {
		return nil, err
	}
	return board.Items(), nil
}

// QuizInput records a change to one quiz item's input buffer.
func (s *Session) QuizInput(id, value string) (quiz.Item, error) {
	board, err := s.quizBoard()
	if err != nil {
		return quiz.Item{}, err
	}
	return board.SetInput(id, value)
}

// QuizCheck grades one quiz item's committed input.
func (s *Session) QuizCheck(id string) (quiz.Item, error) {
	board, err := s.quizBoard()
	if err != nil {
		return quiz.Item{}, err
	}
	return board.Check(id)
}

// QuizReveal shows the answer of an incorrectly answered quiz item.
func (s *Session) QuizReveal(id string) (quiz.Item, error) {
	board, err := s.quizBoard()
	if err != nil {
		return quiz.Item{}, err
	}
	return board.Reveal(id)
}

// QuizReset returns one quiz item to unanswered with an empty buffer.
func (s *Session) QuizReset(id string) (quiz.Item, error) {
	board, err := s.quizBoard()
	if err != nil {
		return quiz.Item{}, err
	}
	return board.Reset(id)
}

func (s *Session) quizBoard() (*QuizBoard, error) {
	if s.board == nil {
		return nil, ErrNoQuiz
	}
	return s.board, nil
}

// promptNote asks the prompter for a note. Any failure is logged and
// reported as no note.
func (s *Session) promptNote(ctx context.Context, candidate string) string {
	note, ok, err := s.prompter.RequestNote(ctx, candidate)
	if err != nil {
		s.logger.DebugContext(ctx, "note prompt failed", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return note
}

// syncBoard ties the board's lifecycle to the play step's quiz submode:
// built fresh on entry, discarded on exit. No quiz state survives
// outside it.
func (s *Session) syncBoard() {
	if s.step == StepPlay && s.mode == ModeQuiz {
		s.board = NewQuizBoard(s.store.List())
	} else {
		s.board = nil
	}
}
