package dispatch

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/metrics"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/redact"
)

const tracerName = "github.com/hartex/hartex/internal/dispatch"

// Dispatch outcomes recorded in metrics.
const (
	OutcomeHandled = "handled"
	OutcomeIgnored = "ignored"
	OutcomeError   = "error"
)

// Dispatcher routes envelopes to Handlers. It holds no per-event state and
// is safe for concurrent use.
type Dispatcher struct {
	handlers Handlers
	tracer   trace.Tracer
	logger   *slog.Logger
}

// New creates a Dispatcher. A nil tracer uses the global provider.
func New(handlers Handlers, tracer trace.Tracer, log *slog.Logger) *Dispatcher {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return &Dispatcher{
		handlers: handlers,
		tracer:   tracer,
		logger:   logger.OrDefault(log).With("component", "dispatcher"),
	}
}

// Dispatch runs the one handler matching env. Handler errors are returned
// unchanged; events without a handler are a no-op.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope, collab Collaborators) error {
	p := payload(env)
	if p == nil {
		return ErrEmptyEnvelope
	}

	category := string(env.Category())
	name := EventName(env)

	ctx, span := d.tracer.Start(ctx, "dispatch "+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("hartex.event.category", category),
			attribute.String("hartex.event.name", name),
		),
	)
	defer span.End()

	start := time.Now()
	handled, err := d.route(ctx, p, collab)
	metrics.DispatchDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())

	outcome := OutcomeHandled
	switch {
	case err != nil:
		outcome = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, redact.Error(err))
		d.logger.DebugContext(ctx, "handler failed",
			"category", category,
			"event", name,
			"error", err)
	case !handled:
		outcome = OutcomeIgnored
		d.logger.DebugContext(ctx, "ignoring event without handler",
			"category", category,
			"event", name)
	}
	span.SetAttributes(attribute.String("hartex.dispatch.outcome", outcome))
	metrics.DispatchTotal.WithLabelValues(category, name, outcome).Inc()

	return err
}

func (d *Dispatcher) route(ctx context.Context, p any, c Collaborators) (bool, error) {
	h := d.handlers
	switch ev := p.(type) {
	case *gateway.GuildCreate:
		return true, h.GuildCreate(ctx, ev, c.Client, c.Cache)
	case *gateway.InteractionCreate:
		return true, h.InteractionCreate(ctx, ev, c.Client, c.Cluster, c.Cache, c.Emitter)
	case *gateway.MessageCreate:
		return true, h.MessageCreate(ctx, ev, c.Cache, c.Emitter)
	case *gateway.Ready:
		return true, h.Ready(ctx, ev, c.Cluster)
	case *gateway.ShardConnecting:
		return true, h.ShardConnecting(ctx, ev)
	case *gateway.ShardConnected:
		return true, h.ShardConnected(ctx, ev)
	case *gateway.ShardReconnecting:
		return true, h.ShardReconnecting(ctx, ev)
	case *gateway.ShardDisconnected:
		return true, h.ShardDisconnected(ctx, ev)
	case *gateway.ShardIdentifying:
		return true, h.ShardIdentifying(ctx, ev)

	case *events.CommandReceived:
		return true, h.CommandReceived(ctx, ev)
	case *events.CommandIdentified:
		return true, h.CommandIdentified(ctx, ev)
	case *events.CommandExecuted:
		return true, h.CommandExecuted(ctx, ev)
	case *events.CommandFailed:
		return true, h.CommandFailed(ctx, ev)
	}
	return false, nil
}
