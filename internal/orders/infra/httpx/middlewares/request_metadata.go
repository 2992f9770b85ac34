package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ctxKey is an unexported type for context keys in this package, so no
// other package can collide with the same underlying value.
type ctxKey string

const (
	headerXRequestID = "X-Request-Id"

	requestIDKey ctxKey = "request_id"
)

// AttachRequestMetadata puts a request ID into the context and echoes it
// back on the response. An inbound X-Request-Id header wins, then chi's
// generated ID, then a fresh UUID.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerXRequestID)
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(headerXRequestID, requestID)

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the request ID attached by AttachRequestMetadata,
// or "" when the middleware did not run.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
