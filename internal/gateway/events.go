package gateway

import "encoding/json"

// Kind names a gateway dispatch type.
type Kind string

// Dispatch types understood by this build.
const (
	KindGuildCreate       Kind = "GUILD_CREATE"
	KindInteractionCreate Kind = "INTERACTION_CREATE"
	KindMessageCreate     Kind = "MESSAGE_CREATE"
	KindReady             Kind = "READY"

	// Shard lifecycle events are produced by the gateway client, not Discord.
	KindShardConnecting   Kind = "SHARD_CONNECTING"
	KindShardConnected    Kind = "SHARD_CONNECTED"
	KindShardReconnecting Kind = "SHARD_RECONNECTING"
	KindShardDisconnected Kind = "SHARD_DISCONNECTED"
	KindShardIdentifying  Kind = "SHARD_IDENTIFYING"
)

// Event is a platform-native event payload.
type Event interface {
	Kind() Kind
}

// User is a Discord user.
type User struct {
	ID            Snowflake `json:"id"`
	Name          string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Bot           bool      `json:"bot"`
}

// Tag renders name#discriminator, or just the name for migrated accounts.
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Name
	}
	return u.Name + "#" + u.Discriminator
}

// Member is a guild member; only the wrapped user is modelled.
type Member struct {
	User *User  `json:"user"`
	Nick string `json:"nick"`
}

// GuildCreate is sent when the bot joins a guild or a guild becomes available.
type GuildCreate struct {
	ID          Snowflake `json:"id"`
	Name        string    `json:"name"`
	OwnerID     Snowflake `json:"owner_id"`
	MemberCount int       `json:"member_count"`
}

// Kind implements Event.
func (*GuildCreate) Kind() Kind { return KindGuildCreate }

// InteractionType distinguishes interaction payloads.
type InteractionType int

// Interaction types.
const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
	InteractionMessageComponent   InteractionType = 3
)

// CommandData carries the invoked application command.
type CommandData struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
}

// InteractionCreate is sent when a user invokes a command or component.
type InteractionCreate struct {
	ID        Snowflake       `json:"id"`
	Token     string          `json:"token"`
	Type      InteractionType `json:"type"`
	GuildID   Snowflake       `json:"guild_id"`
	ChannelID Snowflake       `json:"channel_id"`
	Member    *Member         `json:"member"`
	User      *User           `json:"user"`
	Data      *CommandData    `json:"data"`
}

// Kind implements Event.
func (*InteractionCreate) Kind() Kind { return KindInteractionCreate }

// Invoker returns the user behind the interaction: the member's user inside
// a guild, the top-level user in DMs.
func (i *InteractionCreate) Invoker() User {
	if i.Member != nil && i.Member.User != nil {
		return *i.Member.User
	}
	if i.User != nil {
		return *i.User
	}
	return User{}
}

// CommandName returns the invoked command, or "" for non-command interactions.
func (i *InteractionCreate) CommandName() string {
	if i.Type != InteractionApplicationCommand || i.Data == nil {
		return ""
	}
	return i.Data.Name
}

// MessageCreate is sent for every new message the bot can see.
type MessageCreate struct {
	ID        Snowflake `json:"id"`
	ChannelID Snowflake `json:"channel_id"`
	GuildID   Snowflake `json:"guild_id"`
	Author    User      `json:"author"`
	Content   string    `json:"content"`
}

// Kind implements Event.
func (*MessageCreate) Kind() Kind { return KindMessageCreate }

// Ready is sent once a shard has identified.
type Ready struct {
	Version   int    `json:"v"`
	User      User   `json:"user"`
	SessionID string `json:"session_id"`
	Shard     []int  `json:"shard"`
}

// Kind implements Event.
func (*Ready) Kind() Kind { return KindReady }

// ShardConnecting is emitted when a shard starts connecting.
type ShardConnecting struct {
	ShardID uint64 `json:"shard_id"`
	Gateway string `json:"gateway"`
}

// Kind implements Event.
func (*ShardConnecting) Kind() Kind { return KindShardConnecting }

// ShardConnected is emitted once the websocket is up.
type ShardConnected struct {
	ShardID           uint64 `json:"shard_id"`
	HeartbeatInterval uint64 `json:"heartbeat_interval"`
}

// Kind implements Event.
func (*ShardConnected) Kind() Kind { return KindShardConnected }

// ShardReconnecting is emitted before a shard reconnects.
type ShardReconnecting struct {
	ShardID uint64 `json:"shard_id"`
}

// Kind implements Event.
func (*ShardReconnecting) Kind() Kind { return KindShardReconnecting }

// ShardDisconnected is emitted when a shard's connection closes.
type ShardDisconnected struct {
	ShardID uint64  `json:"shard_id"`
	Code    *uint16 `json:"code"`
	Reason  string  `json:"reason"`
}

// Kind implements Event.
func (*ShardDisconnected) Kind() Kind { return KindShardDisconnected }

// ShardIdentifying is emitted when a shard sends IDENTIFY.
type ShardIdentifying struct {
	ShardID    uint64 `json:"shard_id"`
	ShardTotal uint64 `json:"shard_total"`
}

// Kind implements Event.
func (*ShardIdentifying) Kind() Kind { return KindShardIdentifying }

// Unknown wraps a dispatch this build does not model.
type Unknown struct {
	Type Kind
	Data json.RawMessage
}

// Kind implements Event.
func (u *Unknown) Kind() Kind { return u.Type }
