package handler

import (
	"context"

	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/platform/logger"
)

// CommandReceived logs the start of a command.
func (h *EventHandler) CommandReceived(ctx context.Context, ev *events.CommandReceived) error {
	logger.Verbose(ctx, h.logger, "command received, identifying command",
		"command", ev.Command,
		"event_id", ev.ID)
	return nil
}

// CommandIdentified logs the resolved command.
func (h *EventHandler) CommandIdentified(ctx context.Context, ev *events.CommandIdentified) error {
	logger.Verbose(ctx, h.logger, "command identified", "command", ev.Command)
	return nil
}

// CommandExecuted logs a successful command.
func (h *EventHandler) CommandExecuted(ctx context.Context, ev *events.CommandExecuted) error {
	h.logger.InfoContext(ctx, "command executed",
		"command", ev.Command,
		"guild", ev.GuildName)
	return nil
}

// CommandFailed logs a failed command.
func (h *EventHandler) CommandFailed(ctx context.Context, ev *events.CommandFailed) error {
	h.logger.ErrorContext(ctx, "command failed",
		"command", ev.Command,
		"error", ev.Error)
	return nil
}
