package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/hartex/hartex/internal/platform/logger"
)

type contextKey string

// traceIDKey is the key for the trace ID in the request context
const traceIDKey contextKey = "traceID"

// TraceIDHeader echoes the trace ID back to the caller.
const TraceIDHeader = "X-Trace-ID"

// GetTraceID retrieves the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey).(string)
	return traceID
}

// NewTraceMiddleware tags each request with a trace ID and stores a logger
// carrying it in the request context.
func NewTraceMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	log = logger.OrDefault(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := uuid.NewString()
			reqLog := log.With("trace_id", traceID)

			ctx := context.WithValue(r.Context(), traceIDKey, traceID)
			ctx = logger.WithLogger(ctx, reqLog)

			reqLog.DebugContext(ctx, "request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)

			w.Header().Set(TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
