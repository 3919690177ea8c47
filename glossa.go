// Package glossa provides a library for annotating a text with
// highlights and playing the result back as a study aid.
//
// A session moves through three steps: set a source text, select words
// to highlight (selections snap outward to whole words and may carry a
// note), then play. Play renders the text either with notes revealed on
// hover or as a fill-in quiz where every highlighted word becomes a
// blank to answer.
//
// Basic usage:
//
//	client, err := glossa.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	_ = client.SetText("The quick brown fox")
//
//	// Snaps to the word "quick"
//	rng, rejection, err := client.Highlight(ctx, 5, 7, "rapide")
//	if rejection != nil {
//	    fmt.Println(rejection) // overlap or empty selection
//	}
//
//	items, _ := client.StartQuiz()
//	for _, item := range items {
//	    fmt.Println(item.RangeID(), item.State())
//	}
package glossa

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/glossalab/glossa/application/service"
	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/quiz"
	"github.com/glossalab/glossa/domain/selection"
	"github.com/glossalab/glossa/infrastructure/prompt"
	"github.com/glossalab/glossa/infrastructure/source"
	"github.com/glossalab/glossa/internal/config"
	"github.com/glossalab/glossa/internal/log"
)

// Client is the main entry point for the glossa library. It owns a
// single annotation session and serializes access to it, so a Client is
// safe for concurrent use by the HTTP, WebSocket and MCP surfaces.
type Client struct {
	session *service.Session
	config  config.AppConfig

	logger *slog.Logger
	closed atomic.Bool
	mu     sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	// Set up logger
	logger := cfg.logger
	if logger == nil {
		logger = log.Default().Slog()
	}

	// A note prompter suggests notes for highlights created without
	// one. An explicit prompter wins over the configured endpoint.
	prompter := cfg.prompter
	if prompter == nil {
		if endpoint := cfg.appConfig.NoteEndpoint(); endpoint != nil && endpoint.IsConfigured() {
			prompter = prompt.NewOpenAI(endpoint)
			logger.Info("note prompter enabled", slog.String("model", endpoint.Model()))
		}
	}

	theme := cfg.theme
	if theme == "" {
		theme = cfg.appConfig.Theme()
	}

	sessionOpts := []service.SessionOption{
		service.WithLogger(logger),
		service.WithTheme(theme),
	}
	if cfg.idGen != nil {
		sessionOpts = append(sessionOpts, service.WithIDGenerator(cfg.idGen))
	}
	if prompter != nil {
		sessionOpts = append(sessionOpts, service.WithNotePrompter(prompter))
	}

	client := &Client{
		session: service.NewSession(sessionOpts...),
		config:  cfg.appConfig,
		logger:  logger,
	}

	return client, nil
}

// Close marks the client closed. Further calls return ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.logger.Debug("glossa client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Config returns the application configuration the client was built with.
func (c *Client) Config() config.AppConfig {
	return c.config
}

func (c *Client) guard() error {
	if c.closed.Load() {
		return ErrClientClosed
	}
	return nil
}

// SetText installs text as the session source. Existing highlights and
// any quiz in progress are discarded.
func (c *Client) SetText(text string) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.SetText(text)
	return nil
}

// SetTextFrom reads src to completion and installs the result. The
// session never observes a partially read text.
func (c *Client) SetTextFrom(ctx context.Context, src source.TextSource) error {
	if err := c.guard(); err != nil {
		return err
	}

	text, err := src.Read(ctx)
	if err != nil {
		return fmt.Errorf("read text source: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.SetText(text)
	return nil
}

// Text returns the current source text, empty until one has been set.
func (c *Client) Text() (string, error) {
	if err := c.guard(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Text().String(), nil
}

// Step returns the session's current step.
func (c *Client) Step() (service.Step, error) {
	if err := c.guard(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Step(), nil
}

// Next advances the session one step and returns the step it landed on.
// Leaving the input step requires a non-empty text.
func (c *Client) Next() (service.Step, error) {
	if err := c.guard(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Next()
}

// Back retreats the session one step and returns the step it landed on.
// Leaving the play step discards quiz progress.
func (c *Client) Back() (service.Step, error) {
	if err := c.guard(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Back(), nil
}

// Mode returns the current play mode.
func (c *Client) Mode() (service.PlayMode, error) {
	if err := c.guard(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Mode(), nil
}

// SetMode switches between hover and quiz play. Switching into quiz
// while playing starts a fresh quiz; switching away discards it.
func (c *Client) SetMode(m service.PlayMode) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.SetMode(m)
}

// Theme returns the active display theme name.
func (c *Client) Theme() (string, error) {
	if err := c.guard(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Theme(), nil
}

// SetTheme selects the display theme. Empty names are ignored.
func (c *Client) SetTheme(name string) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.SetTheme(name)
	return nil
}

// Highlight annotates the word-snapped expansion of the rune interval
// [start, end). A non-nil rejection reports why the highlight was not
// created; it is an expected outcome, not an error.
func (c *Client) Highlight(ctx context.Context, start, end int, note string) (annotation.Range, *annotation.Rejection, error) {
	if err := c.guard(); err != nil {
		return annotation.Range{}, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rng, rejection := c.session.Highlight(ctx, start, end, note)
	return rng, rejection, nil
}

// HighlightSelection resolves a rendered-view selection against the
// node tree it was captured in, then highlights the resolved interval.
func (c *Client) HighlightSelection(ctx context.Context, container *selection.Node, sel selection.Selection, note string) (annotation.Range, *annotation.Rejection, error) {
	if err := c.guard(); err != nil {
		return annotation.Range{}, nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rng, rejection := c.session.HighlightSelection(ctx, container, sel, note)
	return rng, rejection, nil
}

// Remove deletes the highlight with the given range ID and reports
// whether one existed.
func (c *Client) Remove(id string) (bool, error) {
	if err := c.guard(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Remove(id), nil
}

// Ranges returns the current highlights ordered by start offset.
func (c *Client) Ranges() ([]annotation.Range, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Ranges(), nil
}

// RangeCount returns the number of highlights.
func (c *Client) RangeCount() (int, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.RangeCount(), nil
}

// Segments splits the text into the alternating plain and highlighted
// stretches every rendering surface consumes.
func (c *Client) Segments() ([]annotation.Segment, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Segments(), nil
}

// StartQuiz switches the session into quiz play and returns the fresh
// quiz items, one per highlight in text order.
func (c *Client) StartQuiz() ([]quiz.Item, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	board, err := c.session.StartQuiz()
	if err != nil {
		return nil, err
	}
	return board.Items(), nil
}

// QuizActive reports whether a quiz is in progress.
func (c *Client) QuizActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.Quiz() != nil
}

// QuizItems returns the active quiz's items in text order.
func (c *Client) QuizItems() ([]quiz.Item, error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.QuizItems()
}

// QuizInput records the learner's in-progress answer for one item.
func (c *Client) QuizInput(id, value string) (quiz.Item, error) {
	if err := c.guard(); err != nil {
		return quiz.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.QuizInput(id, value)
}

// QuizCheck grades the recorded answer for one item.
func (c *Client) QuizCheck(id string) (quiz.Item, error) {
	if err := c.guard(); err != nil {
		return quiz.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.QuizCheck(id)
}

// QuizReveal shows the expected answer for an item after a wrong guess.
func (c *Client) QuizReveal(id string) (quiz.Item, error) {
	if err := c.guard(); err != nil {
		return quiz.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.QuizReveal(id)
}

// QuizReset returns an item to its unanswered state.
func (c *Client) QuizReset(id string) (quiz.Item, error) {
	if err := c.guard(); err != nil {
		return quiz.Item{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.session.QuizReset(id)
}
