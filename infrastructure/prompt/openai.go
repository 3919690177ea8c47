package prompt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/glossalab/glossa/internal/config"
)

// glossSystemPrompt steers the model toward a single short gloss instead
// of an explanation.
const glossSystemPrompt = "You are a vocabulary assistant. Reply with a short " +
	"gloss or translation, at most a few words, for the term the user sends. " +
	"Reply with the gloss only: no surrounding quotes, no explanation."

// OpenAI suggests a note by asking a chat completion model for a short
// gloss of the candidate text.
type OpenAI struct {
	client       *openai.Client
	model        string
	maxTokens    int
	maxRetries   int
	initialDelay time.Duration
}

// NewOpenAI creates a prompter for the configured note endpoint.
func NewOpenAI(endpoint *config.NoteEndpoint) *OpenAI {
	cfg := openai.DefaultConfig(endpoint.APIKey())
	if endpoint.BaseURL() != "" {
		cfg.BaseURL = endpoint.BaseURL()
	}
	if endpoint.Timeout() > 0 {
		cfg.HTTPClient = &http.Client{Timeout: endpoint.Timeout()}
	}

	return &OpenAI{
		client:       openai.NewClientWithConfig(cfg),
		model:        endpoint.Model(),
		maxTokens:    endpoint.MaxTokens(),
		maxRetries:   endpoint.MaxRetries(),
		initialDelay: 500 * time.Millisecond,
	}
}

// RequestNote asks the model for a gloss of candidate. An empty or
// missing reply reports ok == false; the caller highlights without a
// note in that case.
func (p *OpenAI) RequestNote(ctx context.Context, candidate string) (string, bool, error) {
	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: glossSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: candidate},
		},
	}
	if p.maxTokens > 0 {
		req.MaxTokens = p.maxTokens
	}

	var resp openai.ChatCompletionResponse
	err := p.withRetry(ctx, func() error {
		var err error
		resp, err = p.client.CreateChatCompletion(ctx, req)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("request note: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", false, nil
	}

	note := strings.TrimSpace(resp.Choices[0].Message.Content)
	note = strings.Trim(note, `"'`)
	return note, note != "", nil
}

// withRetry executes fn with exponential backoff on retryable failures.
func (p *OpenAI) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func isRetryable(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Network errors are retryable
		return true
	}

	return false
}

var _ NotePrompter = (*OpenAI)(nil)
