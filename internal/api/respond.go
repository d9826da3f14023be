package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/redact"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// respondError sends userMessage to the client and logs the redacted err.
// 5xx responses are logged at error level, everything else at debug.
func respondError(w http.ResponseWriter, r *http.Request, status int, userMessage string, err error) {
	ctx := r.Context()
	traceID := GetTraceID(ctx)

	attrs := []slog.Attr{
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.FromContext(ctx).LogAttrs(ctx, level, "API error response", attrs...)

	respondJSON(w, r, status, ErrorResponse{Error: userMessage, TraceID: traceID})
}
