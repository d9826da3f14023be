package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/task"
)

// maxEventBody bounds injected gateway frames.
const maxEventBody = 1 << 20

// Submitter queues an envelope for dispatch.
type Submitter interface {
	Submit(ctx context.Context, env dispatch.Envelope) error
}

// ListenerCounter reports live event subscribers.
type ListenerCounter interface {
	Listeners() int
}

// CacheStats reports cache occupancy.
type CacheStats interface {
	Stats() (guilds, users int)
}

// ListenersResponse is returned by GET /debug/listeners.
type ListenersResponse struct {
	Listeners    int `json:"listeners"`
	CachedGuilds int `json:"cached_guilds"`
	CachedUsers  int `json:"cached_users"`
}

// SubmitEventRequest is a gateway dispatch frame to inject.
type SubmitEventRequest struct {
	Type gateway.Kind    `json:"t" validate:"required,uppercase"`
	Data json.RawMessage `json:"d"`
}

// SubmitEventResponse acknowledges an injected event.
type SubmitEventResponse struct {
	Event string `json:"event"`
}

// AdminHandler serves the debugging endpoints.
type AdminHandler struct {
	submitter Submitter
	listeners ListenerCounter
	cache     CacheStats
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewAdminHandler creates an AdminHandler. cache may be nil.
func NewAdminHandler(submitter Submitter, listeners ListenerCounter, cache CacheStats, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		submitter: submitter,
		listeners: listeners,
		cache:     cache,
		validate:  validator.New(),
		logger:    logger.OrDefault(log).With("component", "admin_api"),
	}
}

// Health reports liveness.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		h.logger.Error("failed to write health check response", "error", err)
	}
}

// Listeners reports subscriber and cache counts.
func (h *AdminHandler) Listeners(w http.ResponseWriter, r *http.Request) {
	resp := ListenersResponse{Listeners: h.listeners.Listeners()}
	if h.cache != nil {
		resp.CachedGuilds, resp.CachedUsers = h.cache.Stats()
	}
	respondJSON(w, r, http.StatusOK, resp)
}

// SubmitEvent decodes a gateway frame and queues it for dispatch.
func (h *AdminHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	var req SubmitEventRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBody)).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid event type", err)
		return
	}

	event, err := gateway.DecodeFrame(gateway.Frame{Type: req.Type, Data: req.Data})
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid event payload", err)
		return
	}

	if err := h.submitter.Submit(r.Context(), dispatch.Native{Event: event}); err != nil {
		switch {
		case errors.Is(err, task.ErrQueueFull), errors.Is(err, task.ErrQueueClosed):
			respondError(w, r, http.StatusServiceUnavailable, "Dispatch queue unavailable", err)
		default:
			respondError(w, r, http.StatusInternalServerError, "Failed to submit event", err)
		}
		return
	}

	respondJSON(w, r, http.StatusAccepted, SubmitEventResponse{Event: string(event.Kind())})
}
