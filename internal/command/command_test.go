package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hartex/hartex/internal/config"
	"github.com/hartex/hartex/internal/deferred"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/whitelist"
)

type reply struct {
	interactionID gateway.Snowflake
	token         string
	content       string
}

type replyClient struct {
	replies []reply
	err     error
}

func (c *replyClient) CreatePrivateChannel(context.Context, gateway.Snowflake) (gateway.Snowflake, error) {
	return 0, errors.New("not implemented")
}

func (c *replyClient) CreateMessage(context.Context, gateway.Snowflake, string) error {
	return errors.New("not implemented")
}

func (c *replyClient) LeaveGuild(context.Context, gateway.Snowflake) error {
	return errors.New("not implemented")
}

func (c *replyClient) RespondInteraction(_ context.Context, id gateway.Snowflake, token, content string) error {
	c.replies = append(c.replies, reply{interactionID: id, token: token, content: content})
	return c.err
}

type fixedCluster struct {
	shards  int
	latency map[uint64]time.Duration
}

func (c fixedCluster) ShardCount() int { return c.shards }

func (c fixedCluster) Latency(shard uint64) (time.Duration, bool) {
	d, ok := c.latency[shard]
	return d, ok
}

type fixedCache struct {
	users map[gateway.Snowflake]gateway.User
}

func (c fixedCache) StoreGuild(gateway.Snowflake, string)       {}
func (c fixedCache) GuildName(gateway.Snowflake) (string, bool) { return "", false }
func (c fixedCache) StoreUser(gateway.User)                     {}

func (c fixedCache) User(id gateway.Snowflake) (gateway.User, bool) {
	u, ok := c.users[id]
	return u, ok
}

func interaction(guild gateway.Snowflake, member *gateway.Member) *gateway.InteractionCreate {
	return &gateway.InteractionCreate{
		ID:      99,
		Token:   "interaction-token",
		Type:    gateway.InteractionApplicationCommand,
		GuildID: guild,
		Member:  member,
		Data:    &gateway.CommandData{Name: "ping"},
	}
}

func TestSet(t *testing.T) {
	set := NewSet(Ping{}, Userinfo{}, &About{})

	c, ok := set.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, "ping", c.Name())

	_, ok = set.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"about", "ping", "userinfo"}, set.Names())

	var empty *Set
	_, ok = empty.Lookup("ping")
	assert.False(t, ok)
}

func TestPing(t *testing.T) {
	guild := gateway.Snowflake(3 << 22)
	client := &replyClient{}
	cc := Context{
		Interaction: interaction(guild, nil),
		Client:      client,
		Cluster:     fixedCluster{shards: 2, latency: map[uint64]time.Duration{1: 42 * time.Millisecond}},
	}

	require.NoError(t, Ping{}.Execute(context.Background(), cc))

	require.Len(t, client.replies, 1)
	assert.Equal(t, gateway.Snowflake(99), client.replies[0].interactionID)
	assert.Equal(t, "interaction-token", client.replies[0].token)
	assert.Equal(t, "Hello! Did you need anything? :eyes:\nGateway latency: 42ms", client.replies[0].content)
}

func TestPingWithoutLatency(t *testing.T) {
	client := &replyClient{}
	cc := Context{Interaction: interaction(1, nil), Client: client, Cluster: fixedCluster{shards: 1}}

	require.NoError(t, Ping{}.Execute(context.Background(), cc))
	assert.Equal(t, "Hello! Did you need anything? :eyes:", client.replies[0].content)
}

func TestShardFor(t *testing.T) {
	assert.Equal(t, uint64(0), ShardFor(12345<<22, 1))
	assert.Equal(t, uint64(1), ShardFor(5<<22, 4))
	assert.Equal(t, uint64(0), ShardFor(5<<22, 0))
}

func TestAboutPropagatesWhitelistFailure(t *testing.T) {
	client := &replyClient{}
	about := &About{
		Version:   "test",
		Whitelist: &whitelist.Loader{Source: config.MapSource{}},
	}

	err := about.Execute(context.Background(), Context{Interaction: interaction(1, nil), Client: client})

	assert.Error(t, err)
	assert.Empty(t, client.replies)
}

// stalledWhitelist answers only when its context ends.
type stalledWhitelist struct {
	released chan struct{}
}

func (s *stalledWhitelist) GetWhitelistedGuilds() *deferred.Task[[]whitelist.Guild] {
	return deferred.New("stalled_whitelist", func(ctx context.Context) (deferred.Run[[]whitelist.Guild], error) {
		return func(ctx context.Context) ([]whitelist.Guild, error) {
			defer close(s.released)
			<-ctx.Done()
			return nil, ctx.Err()
		}, nil
	}, nil)
}

func TestAboutAbortsLookupWhenCancelled(t *testing.T) {
	client := &replyClient{}
	wl := &stalledWhitelist{released: make(chan struct{})}
	about := &About{Version: "test", Whitelist: wl}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := about.Execute(ctx, Context{Interaction: interaction(1, nil), Client: client})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	select {
	case <-wl.released:
	case <-time.After(time.Second):
		t.Fatal("about left the whitelist lookup running")
	}
	assert.Empty(t, client.replies)
}

func TestUserinfo(t *testing.T) {
	user := &gateway.User{ID: 7, Name: "stale", Discriminator: "0001"}
	client := &replyClient{}
	cc := Context{
		Interaction: interaction(1, &gateway.Member{User: user, Nick: "Tex"}),
		Client:      client,
		Cache: fixedCache{users: map[gateway.Snowflake]gateway.User{
			7: {ID: 7, Name: "HarTex", Discriminator: "0001"},
		}},
	}

	require.NoError(t, Userinfo{}.Execute(context.Background(), cc))

	require.Len(t, client.replies, 1)
	assert.Equal(t, "Information about HarTex\nUsername: HarTex\nDiscriminator: 0001\nUser ID: 7\nGuild Nickname: Tex", client.replies[0].content)
}

func TestUserinfoOutsideGuild(t *testing.T) {
	client := &replyClient{}
	cc := Context{Interaction: interaction(0, nil), Client: client}

	err := Userinfo{}.Execute(context.Background(), cc)

	assert.ErrorIs(t, err, ErrGuildOnly)
	assert.Empty(t, client.replies)
	assert.Equal(t, ":x: This command can only be used in a guild.", FailureMessage(err))
	assert.Equal(t, GenericFailureMessage, FailureMessage(errors.New("boom")))
}
