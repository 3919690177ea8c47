package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/glossalab/glossa/application/service"
)

// Sentinel errors for errors.Is matching across wrapped chains.
var (
	// ErrAuthentication matches any AuthenticationError.
	ErrAuthentication = errors.New("authentication failed")

	// ErrServer matches any ServerError.
	ErrServer = errors.New("server error")
)

// APIError is a client-facing error carrying an HTTP status code. The
// message is safe to return in a response body.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates an APIError with the given status code, message
// and optional cause.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the client-facing message.
func (e *APIError) Message() string { return e.message }

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error { return e.cause }

// AuthenticationError indicates a request failed API key validation.
type AuthenticationError struct {
	message string
}

// NewAuthenticationError creates an AuthenticationError.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{message: message}
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.message)
}

// Is matches ErrAuthentication so callers can use errors.Is.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// ServerError indicates a server-side failure with a specific status.
type ServerError struct {
	status  int
	message string
}

// NewServerError creates a ServerError.
func NewServerError(status int, message string) *ServerError {
	return &ServerError{status: status, message: message}
}

// StatusCode returns the HTTP status code.
func (e *ServerError) StatusCode() int { return e.status }

// Message returns the client-facing message.
func (e *ServerError) Message() string { return e.message }

// Error implements the error interface.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.status, e.message)
}

// Is matches ErrServer so callers can use errors.Is.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// The status line is already sent, nothing useful to do on failure.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto an HTTP status code and writes an error
// response body. Server-side failures are logged at error level, client
// mistakes at debug.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status, message := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.DebugContext(r.Context(), "request rejected",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	WriteJSON(w, status, map[string]string{"error": message})
}

func statusFor(err error) (status int, message string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code(), apiErr.Message()
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, authErr.Error()
	}

	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode(), srvErr.Message()
	}

	switch {
	case errors.Is(err, service.ErrQuizItemNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNoSession), errors.Is(err, service.ErrNoQuiz):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrClientClosed):
		return http.StatusServiceUnavailable, err.Error()
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusBadRequest, "invalid request body"
	}

	return http.StatusInternalServerError, "internal server error"
}
