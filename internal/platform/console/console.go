package console

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/platform/logger"
)

// Call is one recorded platform request.
type Call struct {
	Method  string
	Target  gateway.Snowflake
	Content string
}

// Client records calls and logs them at info.
type Client struct {
	logger *slog.Logger

	mu    sync.Mutex
	calls []Call
}

var _ dispatch.Client = (*Client)(nil)

// NewClient creates a Client.
func NewClient(log *slog.Logger) *Client {
	return &Client{logger: logger.OrDefault(log).With("component", "console_client")}
}

func (c *Client) record(ctx context.Context, call Call) {
	c.mu.Lock()
	c.calls = append(c.calls, call)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "platform call",
		"method", call.Method,
		"target", call.Target.String(),
		"content", call.Content)
}

// CreatePrivateChannel reuses the user id as the channel id.
func (c *Client) CreatePrivateChannel(ctx context.Context, userID gateway.Snowflake) (gateway.Snowflake, error) {
	c.record(ctx, Call{Method: "create_private_channel", Target: userID})
	return userID, nil
}

// CreateMessage implements dispatch.Client.
func (c *Client) CreateMessage(ctx context.Context, channelID gateway.Snowflake, content string) error {
	c.record(ctx, Call{Method: "create_message", Target: channelID, Content: content})
	return nil
}

// LeaveGuild implements dispatch.Client.
func (c *Client) LeaveGuild(ctx context.Context, guildID gateway.Snowflake) error {
	c.record(ctx, Call{Method: "leave_guild", Target: guildID})
	return nil
}

// RespondInteraction implements dispatch.Client. The token is never logged.
func (c *Client) RespondInteraction(ctx context.Context, interactionID gateway.Snowflake, _ string, content string) error {
	c.record(ctx, Call{Method: "respond_interaction", Target: interactionID, Content: content})
	return nil
}

// Calls returns a copy of the recorded calls.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// Cluster reports a fixed shard count and no latency samples.
type Cluster struct {
	Shards int
}

var _ dispatch.Cluster = Cluster{}

// ShardCount implements dispatch.Cluster. It is at least 1.
func (c Cluster) ShardCount() int {
	if c.Shards < 1 {
		return 1
	}
	return c.Shards
}

// Latency implements dispatch.Cluster.
func (Cluster) Latency(uint64) (time.Duration, bool) {
	return 0, false
}
