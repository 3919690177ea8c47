// Package config provides application configuration.
package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., NOTE_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// Theme is the default presentation theme.
	// Env: THEME (default: plain)
	Theme string `envconfig:"THEME" default:"plain"`

	// TextFile is a path to a text file preloaded into the session.
	// Env: TEXT_FILE
	TextFile string `envconfig:"TEXT_FILE"`

	// APIKeys is a comma-separated list of valid API keys.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// Note configures the note suggestion AI service.
	Note NoteEnv `envconfig:"NOTE"`
}

// NoteEnv holds environment configuration for the note suggestion endpoint.
type NoteEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: NOTE_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier (e.g., gpt-4o-mini).
	// Env: NOTE_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: NOTE_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: NOTE_TIMEOUT (default: 30)
	Timeout float64 `envconfig:"TIMEOUT" default:"30"`

	// MaxRetries is the maximum number of retries.
	// Env: NOTE_MAX_RETRIES (default: 2)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"2"`

	// MaxTokens is the maximum token limit for a suggestion.
	// Env: NOTE_MAX_TOKENS (default: 120)
	MaxTokens int `envconfig:"MAX_TOKENS" default:"120"`
}

// LoadFromEnv loads configuration from environment variables.
// It uses no prefix; variables are named exactly as tagged.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// Normalize trims surrounding whitespace from string values so quoted
// .env entries behave the same as plain ones.
func (e EnvConfig) Normalize() EnvConfig {
	e.Host = strings.TrimSpace(e.Host)
	e.LogLevel = strings.TrimSpace(e.LogLevel)
	e.LogFormat = strings.TrimSpace(e.LogFormat)
	e.Theme = strings.TrimSpace(e.Theme)
	e.TextFile = strings.TrimSpace(e.TextFile)
	e.APIKeys = strings.TrimSpace(e.APIKeys)
	e.Note.BaseURL = strings.TrimSpace(e.Note.BaseURL)
	e.Note.Model = strings.TrimSpace(e.Note.Model)
	e.Note.APIKey = strings.TrimSpace(e.Note.APIKey)
	return e
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = cfg.Apply(WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = cfg.Apply(WithPort(e.Port))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.Theme != "" {
		cfg = cfg.Apply(WithTheme(e.Theme))
	}
	if e.TextFile != "" {
		cfg = cfg.Apply(WithTextFile(e.TextFile))
	}
	if e.APIKeys != "" {
		cfg = cfg.Apply(WithAPIKeys(ParseAPIKeys(e.APIKeys)))
	}
	if e.Note.IsConfigured() {
		cfg = cfg.Apply(WithNoteEndpoint(e.Note.ToNoteEndpoint()))
	}

	return cfg
}

// IsConfigured returns true if the endpoint has a model configured.
func (n NoteEnv) IsConfigured() bool {
	return n.Model != ""
}

// ToNoteEndpoint converts NoteEnv to NoteEndpoint.
func (n NoteEnv) ToNoteEndpoint() NoteEndpoint {
	opts := []NoteEndpointOption{
		WithNoteModel(n.Model),
		WithNoteTimeout(time.Duration(n.Timeout * float64(time.Second))),
		WithNoteMaxRetries(n.MaxRetries),
		WithNoteMaxTokens(n.MaxTokens),
	}

	if n.BaseURL != "" {
		opts = append(opts, WithNoteBaseURL(n.BaseURL))
	}
	if n.APIKey != "" {
		opts = append(opts, WithNoteAPIKey(n.APIKey))
	}

	return NewNoteEndpointWithOptions(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
