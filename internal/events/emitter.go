package events

import (
	"context"
	"log/slog"

	"github.com/hartex/hartex/internal/listener"
	"github.com/hartex/hartex/internal/metrics"
	"github.com/hartex/hartex/internal/platform/logger"
)

// Emitter is the publish-side handle over a shared subscriber registry.
// Copies of the pointer may be handed to any number of goroutines.
type Emitter struct {
	registry *listener.Registry[Event]
	logger   *slog.Logger
}

// NewEmitter creates an Emitter over registry. A nil registry gets a fresh one.
func NewEmitter(registry *listener.Registry[Event], log *slog.Logger) *Emitter {
	if registry == nil {
		registry = listener.NewRegistry[Event]()
	}
	return &Emitter{
		registry: registry,
		logger:   logger.OrDefault(log).With("component", "event_emitter"),
	}
}

// Emit publishes event to every current subscriber and returns how many
// received it. Emit never blocks and never fails; subscribers that went away
// are dropped from the registry.
func (e *Emitter) Emit(ctx context.Context, event Event) int {
	name := event.EventName()
	delivered := e.registry.Broadcast(event)

	metrics.EventsEmittedTotal.WithLabelValues(name).Inc()
	metrics.EventDeliveriesTotal.Add(float64(delivered))
	metrics.Listeners.Set(float64(e.registry.Len()))

	e.logger.DebugContext(ctx, "emitted event",
		"event", name,
		"delivered", delivered)

	return delivered
}

// Subscribe registers a new subscriber. The caller owns the receiver and
// should Close it when done.
func (e *Emitter) Subscribe() *listener.Receiver[Event] {
	r := e.registry.Subscribe()
	metrics.Listeners.Set(float64(e.registry.Len()))
	e.logger.Debug("registered new event listener", "listener_id", r.ID())
	return r
}

// Listeners returns the registry's subscriber count (see listener.Registry.Len
// for why it may over-report).
func (e *Emitter) Listeners() int {
	return e.registry.Len()
}

// Prune removes closed subscribers eagerly.
func (e *Emitter) Prune() int {
	removed := e.registry.Prune()
	if removed > 0 {
		metrics.ListenersPrunedTotal.Add(float64(removed))
		e.logger.Debug("pruned closed event listeners", "removed", removed)
	}
	metrics.Listeners.Set(float64(e.registry.Len()))
	return removed
}
