package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/hartex/hartex/internal/deferred"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/whitelist"
)

// Ping greets the user and reports the gateway latency of the shard serving
// the interaction, when known.
type Ping struct{}

// Name implements Command.
func (Ping) Name() string { return "ping" }

// Description implements Command.
func (Ping) Description() string { return "Checks whether the bot is responsive." }

// Execute implements Command.
func (Ping) Execute(ctx context.Context, cc Context) error {
	content := "Hello! Did you need anything? :eyes:"
	if cc.Cluster != nil {
		shard := ShardFor(cc.Interaction.GuildID, cc.Cluster.ShardCount())
		if latency, ok := cc.Cluster.Latency(shard); ok {
			content += fmt.Sprintf("\nGateway latency: %dms", latency.Milliseconds())
		}
	}
	return cc.Reply(ctx, content)
}

// ShardFor returns the shard that receives events for guildID.
func ShardFor(guildID gateway.Snowflake, shardCount int) uint64 {
	if shardCount <= 1 {
		return 0
	}
	return (uint64(guildID) >> 22) % uint64(shardCount)
}

// WhitelistLookup builds a fresh whitelist task.
type WhitelistLookup interface {
	GetWhitelistedGuilds() *deferred.Task[[]whitelist.Guild]
}

// About describes the bot, including how many guilds are whitelisted.
type About struct {
	Version   string
	Whitelist WhitelistLookup
}

// Name implements Command.
func (*About) Name() string { return "about" }

// Description implements Command.
func (*About) Description() string { return "Shows information about the bot." }

// Execute implements Command.
func (a *About) Execute(ctx context.Context, cc Context) error {
	lookup := a.Whitelist.GetWhitelistedGuilds()
	defer lookup.Discard()

	guilds, err := lookup.Await(ctx)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("HarTex is a Discord bot that is built and optimized for efficient Discord moderation and administration, ")
	b.WriteString("maintained by the HarTex Development Team members.\n\n")
	fmt.Fprintf(&b, "Bot Version: %s\n", a.Version)
	fmt.Fprintf(&b, "Whitelisted Guilds: %d", len(guilds))
	return cc.Reply(ctx, b.String())
}

// Userinfo shows what the bot knows about the invoking member.
type Userinfo struct{}

// Name implements Command.
func (Userinfo) Name() string { return "userinfo" }

// Description implements Command.
func (Userinfo) Description() string { return "Shows information about a guild member." }

// Execute implements Command.
func (Userinfo) Execute(ctx context.Context, cc Context) error {
	ev := cc.Interaction
	if ev.GuildID == 0 || ev.Member == nil {
		return ErrGuildOnly
	}

	user := ev.Invoker()
	if cc.Cache != nil {
		if cached, ok := cc.Cache.User(user.ID); ok {
			user = cached
		}
	}
	nick := ev.Member.Nick
	if nick == "" {
		nick = "None"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Information about %s\n", user.Name)
	fmt.Fprintf(&b, "Username: %s\n", user.Name)
	fmt.Fprintf(&b, "Discriminator: %s\n", user.Discriminator)
	fmt.Fprintf(&b, "User ID: %s\n", user.ID)
	fmt.Fprintf(&b, "Guild Nickname: %s", nick)
	return cc.Reply(ctx, b.String())
}
