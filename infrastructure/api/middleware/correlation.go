package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/glossalab/glossa/internal/log"
)

// CorrelationIDHeader carries the caller's correlation ID.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID propagates the X-Correlation-ID header into the request
// context, minting one when the caller did not send any. The ID is
// echoed back on the response so clients can line up logs.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := log.WithCorrelationID(r.Context(), id)
		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
