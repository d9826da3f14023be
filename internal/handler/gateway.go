package handler

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hartex/hartex/internal/command"
	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/redact"
	"github.com/hartex/hartex/internal/whitelist"
)

// GuildCreate leaves guilds that are not whitelisted, after telling the owner
// why. A failed whitelist lookup leaves the guild alone; an abandoned dispatch
// aborts the lookup and returns the context error.
func (h *EventHandler) GuildCreate(ctx context.Context, ev *gateway.GuildCreate, client dispatch.Client, cache dispatch.Cache) error {
	if cache != nil {
		cache.StoreGuild(ev.ID, ev.Name)
	}

	log := h.logger.With("guild_id", ev.ID)
	log.DebugContext(ctx, "joined a guild, checking whether it is whitelisted")

	lookup := h.whitelist.GetWhitelistedGuilds()
	defer lookup.Discard()

	lookupCtx, span := h.tracer.Start(ctx, "whitelist check",
		trace.WithAttributes(attribute.String("hartex.guild.id", ev.ID.String())))
	guilds, err := lookup.Await(lookupCtx)
	endSpan(span, err)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("whitelist check abandoned: %w", ctx.Err())
		}
		log.ErrorContext(ctx, "whitelist check failed", "error", err)
		return nil
	}
	if whitelist.Contains(guilds, uint64(ev.ID)) {
		log.DebugContext(ctx, "guild is whitelisted")
		return nil
	}

	log.DebugContext(ctx, "guild is not whitelisted, leaving")
	if ev.OwnerID != 0 {
		channel, err := client.CreatePrivateChannel(ctx, ev.OwnerID)
		if err != nil {
			return fmt.Errorf("open dm with guild owner: %w", err)
		}
		if err := client.CreateMessage(ctx, channel, NonWhitelistedNotice); err != nil {
			return fmt.Errorf("send whitelist notice: %w", err)
		}
	}
	if err := client.LeaveGuild(ctx, ev.ID); err != nil {
		return fmt.Errorf("leave guild: %w", err)
	}
	return nil
}

// InteractionCreate runs slash commands. Command failures are acknowledged to
// the user and reported through CommandFailed rather than returned.
func (h *EventHandler) InteractionCreate(ctx context.Context, ev *gateway.InteractionCreate, client dispatch.Client, cluster dispatch.Cluster, cache dispatch.Cache, emitter *events.Emitter) error {
	if ev.Type != gateway.InteractionApplicationCommand {
		logger.Verbose(ctx, h.logger, "ignoring non-command interaction", "type", int(ev.Type))
		return nil
	}

	invoker := ev.Invoker()
	if cache != nil {
		cache.StoreUser(invoker)
	}
	name := ev.CommandName()
	emit(ctx, emitter, events.NewCommandReceived(name, uint64(ev.GuildID), uint64(invoker.ID)))

	cmd, ok := h.commands.Lookup(name)
	if !ok {
		return h.commandFailed(ctx, ev, client, emitter, name, fmt.Errorf("unknown command %q", name))
	}
	emit(ctx, emitter, events.NewCommandIdentified(name))

	cc := command.Context{Interaction: ev, Client: client, Cluster: cluster, Cache: cache}
	cmdCtx, span := h.tracer.Start(ctx, "command "+name,
		trace.WithAttributes(attribute.String("hartex.command", name)))
	err := cmd.Execute(cmdCtx, cc)
	endSpan(span, err)
	if err != nil {
		return h.commandFailed(ctx, ev, client, emitter, name, err)
	}

	guildName := "direct messages"
	if ev.GuildID != 0 {
		guildName = ev.GuildID.String()
		if cache != nil {
			if cached, ok := cache.GuildName(ev.GuildID); ok {
				guildName = cached
			}
		}
	}
	emit(ctx, emitter, events.NewCommandExecuted(name, guildName))
	return nil
}

func (h *EventHandler) commandFailed(ctx context.Context, ev *gateway.InteractionCreate, client dispatch.Client, emitter *events.Emitter, name string, err error) error {
	h.logger.ErrorContext(ctx, "command failed",
		"command", name,
		"guild_id", ev.GuildID,
		"error", err)
	emit(ctx, emitter, events.NewCommandFailed(name, redact.Error(err)))

	if rerr := client.RespondInteraction(ctx, ev.ID, ev.Token, command.FailureMessage(err)); rerr != nil {
		return fmt.Errorf("acknowledge failed command: %w", rerr)
	}
	return nil
}

// MessageCreate records message authors and raises CommandReceived for
// prefixed text commands.
func (h *EventHandler) MessageCreate(ctx context.Context, ev *gateway.MessageCreate, cache dispatch.Cache, emitter *events.Emitter) error {
	if ev.Author.Bot {
		return nil
	}
	if cache != nil {
		cache.StoreUser(ev.Author)
	}
	if h.prefix == "" || !strings.HasPrefix(ev.Content, h.prefix) {
		return nil
	}

	fields := strings.Fields(strings.TrimPrefix(ev.Content, h.prefix))
	if len(fields) == 0 {
		return nil
	}
	emit(ctx, emitter, events.NewCommandReceived(fields[0], uint64(ev.GuildID), uint64(ev.Author.ID)))
	return nil
}

// Ready logs the identity the bot connected as.
func (h *EventHandler) Ready(ctx context.Context, ev *gateway.Ready, cluster dispatch.Cluster) error {
	shards := 0
	if cluster != nil {
		shards = cluster.ShardCount()
	}
	h.logger.InfoContext(ctx, "bot is ready",
		"user", ev.User.Tag(),
		"user_id", ev.User.ID,
		"api_version", ev.Version,
		"shards", shards)
	return nil
}

// ShardConnecting logs the shard lifecycle transition.
func (h *EventHandler) ShardConnecting(ctx context.Context, ev *gateway.ShardConnecting) error {
	logger.Verbose(ctx, h.logger, "shard is connecting to the gateway", "shard_id", ev.ShardID, "gateway", ev.Gateway)
	return nil
}

// ShardConnected logs the shard lifecycle transition.
func (h *EventHandler) ShardConnected(ctx context.Context, ev *gateway.ShardConnected) error {
	logger.Verbose(ctx, h.logger, "shard is connected to the gateway",
		"shard_id", ev.ShardID,
		"heartbeat_interval_ms", ev.HeartbeatInterval)
	return nil
}

// ShardReconnecting logs the shard lifecycle transition.
func (h *EventHandler) ShardReconnecting(ctx context.Context, ev *gateway.ShardReconnecting) error {
	logger.Verbose(ctx, h.logger, "shard is reconnecting to the gateway", "shard_id", ev.ShardID)
	return nil
}

// ShardDisconnected logs the shard lifecycle transition.
func (h *EventHandler) ShardDisconnected(ctx context.Context, ev *gateway.ShardDisconnected) error {
	args := []any{"shard_id", ev.ShardID, "reason", ev.Reason}
	if ev.Code != nil {
		args = append(args, "close_code", *ev.Code)
	}
	logger.Verbose(ctx, h.logger, "shard is disconnected from the gateway", args...)
	return nil
}

// ShardIdentifying logs the shard lifecycle transition.
func (h *EventHandler) ShardIdentifying(ctx context.Context, ev *gateway.ShardIdentifying) error {
	logger.Verbose(ctx, h.logger, "shard is identifying with the gateway",
		"shard_id", ev.ShardID,
		"shard_total", ev.ShardTotal)
	return nil
}

func emit(ctx context.Context, emitter *events.Emitter, ev events.Event) {
	if emitter != nil {
		emitter.Emit(ctx, ev)
	}
}
