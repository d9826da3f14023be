package handler

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hartex/hartex/internal/command"
	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/redact"
)

const tracerName = "github.com/hartex/hartex/internal/handler"

// NonWhitelistedNotice is sent to the owner of a guild the bot is about to leave.
const NonWhitelistedNotice = "Thank you for checking out HarTex and inviting it to your guild!\n\n" +
	"Unfortunately, it looks like your guild is not whitelisted. You may apply if your guild meets the following criteria:\n\n" +
	"- Have at least 100 members;\n" +
	"- Always abide by the Discord Terms of Service and Community Guidelines;\n" +
	"- Shall not have any NSFW channels; and\n" +
	"- One member of your staff team shall stay in the support server for contacting purposes.\n\n" +
	"Server Invite: discord.gg/s8qjxZK\n\n" +
	"Please go to our support server and run `hb.apply` to apply for a whitelist.\n\n" +
	"Wish you best of luck!"

// EventHandler reacts to gateway and custom events.
type EventHandler struct {
	commands  *command.Set
	whitelist command.WhitelistLookup
	prefix    string
	logger    *slog.Logger
	tracer    trace.Tracer
}

var _ dispatch.Handlers = (*EventHandler)(nil)

// New creates an EventHandler. prefix marks text commands in messages.
func New(commands *command.Set, whitelist command.WhitelistLookup, prefix string, log *slog.Logger) *EventHandler {
	return &EventHandler{
		commands:  commands,
		whitelist: whitelist,
		prefix:    prefix,
		logger:    logger.OrDefault(log).With("component", "event_handler"),
		tracer:    otel.Tracer(tracerName),
	}
}

// WithTracer sets the tracer for the spans handlers open under the dispatch
// span. Nil keeps the global provider's tracer.
func (h *EventHandler) WithTracer(tracer trace.Tracer) *EventHandler {
	if tracer != nil {
		h.tracer = tracer
	}
	return h
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, redact.Error(err))
	}
	span.End()
}
