package glossa

import (
	"log/slog"

	"github.com/glossalab/glossa/infrastructure/prompt"
	"github.com/glossalab/glossa/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	appConfig config.AppConfig
	logger    *slog.Logger
	theme     string
	idGen     func() string
	prompter  prompt.NotePrompter
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		appConfig: config.NewAppConfig(),
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithConfig supplies a fully resolved application configuration. Theme
// and note endpoint defaults are drawn from it unless overridden by a
// more specific option.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.appConfig = cfg
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithTheme sets the initial display theme. Unknown names fall back to
// the default theme at render time.
func WithTheme(name string) Option {
	return func(c *clientConfig) {
		c.theme = name
	}
}

// WithIDGenerator overrides how range identifiers are drawn. Intended
// for tests that need deterministic identifiers.
func WithIDGenerator(gen func() string) Option {
	return func(c *clientConfig) {
		c.idGen = gen
	}
}

// WithNotePrompter sets the prompter consulted for a note suggestion
// when a highlight arrives without one. It takes precedence over any
// note endpoint in the application configuration.
func WithNotePrompter(p prompt.NotePrompter) Option {
	return func(c *clientConfig) {
		c.prompter = p
	}
}
