// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultLogLevel       = "INFO"
	DefaultTheme          = "plain"
	DefaultNoteTimeout    = 30 * time.Second
	DefaultNoteMaxRetries = 2
	DefaultNoteMaxTokens  = 120
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// NoteEndpoint configures the AI service used to suggest notes for
// highlighted words. An endpoint with no model is not configured and the
// suggester stays disabled.
type NoteEndpoint struct {
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	maxTokens  int
}

// NewNoteEndpoint creates a new NoteEndpoint with defaults.
func NewNoteEndpoint() NoteEndpoint {
	return NoteEndpoint{
		timeout:    DefaultNoteTimeout,
		maxRetries: DefaultNoteMaxRetries,
		maxTokens:  DefaultNoteMaxTokens,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e NoteEndpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e NoteEndpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e NoteEndpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e NoteEndpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e NoteEndpoint) MaxRetries() int { return e.maxRetries }

// MaxTokens returns the maximum token limit for a suggestion.
func (e NoteEndpoint) MaxTokens() int { return e.maxTokens }

// IsConfigured returns true if the endpoint has required configuration.
func (e NoteEndpoint) IsConfigured() bool {
	return e.model != ""
}

// NoteEndpointOption is a functional option for NoteEndpoint.
type NoteEndpointOption func(*NoteEndpoint)

// WithNoteBaseURL sets the base URL.
func WithNoteBaseURL(url string) NoteEndpointOption {
	return func(e *NoteEndpoint) { e.baseURL = url }
}

// WithNoteModel sets the model.
func WithNoteModel(model string) NoteEndpointOption {
	return func(e *NoteEndpoint) { e.model = model }
}

// WithNoteAPIKey sets the API key.
func WithNoteAPIKey(key string) NoteEndpointOption {
	return func(e *NoteEndpoint) { e.apiKey = key }
}

// WithNoteTimeout sets the request timeout.
func WithNoteTimeout(d time.Duration) NoteEndpointOption {
	return func(e *NoteEndpoint) { e.timeout = d }
}

// WithNoteMaxRetries sets the maximum retry count.
func WithNoteMaxRetries(n int) NoteEndpointOption {
	return func(e *NoteEndpoint) { e.maxRetries = n }
}

// WithNoteMaxTokens sets the maximum token limit.
func WithNoteMaxTokens(n int) NoteEndpointOption {
	return func(e *NoteEndpoint) { e.maxTokens = n }
}

// NewNoteEndpointWithOptions creates a NoteEndpoint with functional options.
func NewNoteEndpointWithOptions(opts ...NoteEndpointOption) NoteEndpoint {
	e := NewNoteEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host         string
	port         int
	logLevel     string
	logFormat    LogFormat
	theme        string
	textFile     string
	apiKeys      []string
	noteEndpoint *NoteEndpoint
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:      DefaultHost,
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		logFormat: LogFormatPretty,
		theme:     DefaultTheme,
		apiKeys:   []string{},
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// Theme returns the default presentation theme name.
func (c AppConfig) Theme() string { return c.theme }

// TextFile returns the path of a text file to preload into the session.
func (c AppConfig) TextFile() string { return c.textFile }

// APIKeys returns the configured API keys.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// NoteEndpoint returns the note suggestion endpoint config.
func (c AppConfig) NoteEndpoint() *NoteEndpoint { return c.noteEndpoint }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithTheme sets the default theme name.
func WithTheme(theme string) AppConfigOption {
	return func(c *AppConfig) {
		if theme != "" {
			c.theme = theme
		}
	}
}

// WithTextFile sets the text file to preload.
func WithTextFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.textFile = path }
}

// WithAPIKeys sets the API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithNoteEndpoint sets the note suggestion endpoint.
func WithNoteEndpoint(e NoteEndpoint) AppConfigOption {
	return func(c *AppConfig) { c.noteEndpoint = &e }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
// This copies all fields from the receiver and then applies the options,
// making it safe to use when adding new fields to AppConfig.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Sensitive values like API keys are masked or shown as counts.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("host", c.host),
		slog.Int("port", c.port),
		slog.String("log_level", c.logLevel),
		slog.String("theme", c.theme),
		slog.String("text_file", c.textFile),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.String("note_base_url", c.noteBaseURL()),
		slog.String("note_model", c.noteModel()),
	}
}

func (c AppConfig) noteBaseURL() string {
	if c.noteEndpoint == nil {
		return "(not configured)"
	}
	return c.noteEndpoint.BaseURL()
}

func (c AppConfig) noteModel() string {
	if c.noteEndpoint == nil {
		return "(not configured)"
	}
	return c.noteEndpoint.Model()
}

// ParseAPIKeys parses a comma-separated string of API keys.
func ParseAPIKeys(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}
