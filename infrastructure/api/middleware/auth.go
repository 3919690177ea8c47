package middleware

import "net/http"

// APIKeyHeader carries the client's API key on mutating requests.
const APIKeyHeader = "X-API-KEY"

// AuthConfig holds the accepted API keys for write protection.
type AuthConfig struct {
	keys map[string]struct{}
}

// NewAuthConfigWithKeys creates an AuthConfig accepting the given keys.
// Nil or empty keys disable protection entirely.
func NewAuthConfigWithKeys(keys []string) AuthConfig {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key != "" {
			set[key] = struct{}{}
		}
	}
	return AuthConfig{keys: set}
}

// Enabled reports whether any keys are configured.
func (c AuthConfig) Enabled() bool { return len(c.keys) > 0 }

func (c AuthConfig) allows(key string) bool {
	_, ok := c.keys[key]
	return ok
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// WriteProtect requires a valid X-API-KEY header on mutating methods.
// Safe methods (GET, HEAD, OPTIONS) always pass, and the middleware is a
// no-op with no keys configured.
func WriteProtect(config AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled() || isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			if config.allows(r.Header.Get(APIKeyHeader)) {
				next.ServeHTTP(w, r)
				return
			}

			WriteError(w, r, NewAuthenticationError("invalid or missing API key"), nil)
		})
	}
}

// WriteProtectAuth is WriteProtect with the config built from keys.
func WriteProtectAuth(keys []string) func(http.Handler) http.Handler {
	return WriteProtect(NewAuthConfigWithKeys(keys))
}
