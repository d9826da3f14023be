package dispatch

import (
	"context"
	"time"

	"github.com/hartex/hartex/internal/events"
	"github.com/hartex/hartex/internal/gateway"
)

// Client is the platform HTTP API surface the handlers use.
type Client interface {
	CreatePrivateChannel(ctx context.Context, userID gateway.Snowflake) (gateway.Snowflake, error)
	CreateMessage(ctx context.Context, channelID gateway.Snowflake, content string) error
	LeaveGuild(ctx context.Context, guildID gateway.Snowflake) error
	RespondInteraction(ctx context.Context, interactionID gateway.Snowflake, token, content string) error
}

// Cache is the shared in-memory view of guilds and users.
type Cache interface {
	StoreGuild(id gateway.Snowflake, name string)
	GuildName(id gateway.Snowflake) (string, bool)
	StoreUser(user gateway.User)
	User(id gateway.Snowflake) (gateway.User, bool)
}

// Cluster describes the running gateway shards.
type Cluster interface {
	ShardCount() int
	Latency(shardID uint64) (time.Duration, bool)
}

// Collaborators are the shared handles available to handlers. The value is
// copied into every dispatch; the handles themselves are shared. Client must
// be set; handlers treat a nil Cache or Cluster as absent.
type Collaborators struct {
	Client  Client
	Cache   Cache
	Cluster Cluster
	Emitter *events.Emitter
}

// Handlers reacts to events. Each method receives only the collaborators it
// needs.
type Handlers interface {
	GuildCreate(ctx context.Context, ev *gateway.GuildCreate, client Client, cache Cache) error
	InteractionCreate(ctx context.Context, ev *gateway.InteractionCreate, client Client, cluster Cluster, cache Cache, emitter *events.Emitter) error
	MessageCreate(ctx context.Context, ev *gateway.MessageCreate, cache Cache, emitter *events.Emitter) error
	Ready(ctx context.Context, ev *gateway.Ready, cluster Cluster) error

	ShardConnecting(ctx context.Context, ev *gateway.ShardConnecting) error
	ShardConnected(ctx context.Context, ev *gateway.ShardConnected) error
	ShardReconnecting(ctx context.Context, ev *gateway.ShardReconnecting) error
	ShardDisconnected(ctx context.Context, ev *gateway.ShardDisconnected) error
	ShardIdentifying(ctx context.Context, ev *gateway.ShardIdentifying) error

	CommandReceived(ctx context.Context, ev *events.CommandReceived) error
	CommandIdentified(ctx context.Context, ev *events.CommandIdentified) error
	CommandExecuted(ctx context.Context, ev *events.CommandExecuted) error
	CommandFailed(ctx context.Context, ev *events.CommandFailed) error
}
