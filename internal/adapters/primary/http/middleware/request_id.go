package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// RequestIDKey is the context key under which the request ID is stored
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader is the header used to propagate request IDs
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an ID. An incoming X-Request-ID is
// honored so IDs stay stable across the gateway; otherwise a fresh UUID
// is minted. The ID is echoed on the response and stored in the context
// for the loggers downstream.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
