// Package cache keeps a bounded in-memory view of the guilds and users the
// bot has recently seen.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hartex/hartex/internal/gateway"
)

// DefaultSize bounds each of the guild and user caches.
const DefaultSize = 4096

// InMemory is an LRU cache of guild names and users. It is safe for
// concurrent use.
type InMemory struct {
	guilds *lru.Cache[gateway.Snowflake, string]
	users  *lru.Cache[gateway.Snowflake, gateway.User]
}

// New creates a cache holding up to size guilds and size users. A size of
// zero or less uses DefaultSize.
func New(size int) (*InMemory, error) {
	if size <= 0 {
		size = DefaultSize
	}
	guilds, err := lru.New[gateway.Snowflake, string](size)
	if err != nil {
		return nil, fmt.Errorf("guild cache: %w", err)
	}
	users, err := lru.New[gateway.Snowflake, gateway.User](size)
	if err != nil {
		return nil, fmt.Errorf("user cache: %w", err)
	}
	return &InMemory{guilds: guilds, users: users}, nil
}

// StoreGuild records the name of guild id.
func (c *InMemory) StoreGuild(id gateway.Snowflake, name string) {
	if id == 0 {
		return
	}
	c.guilds.Add(id, name)
}

// GuildName returns the cached name of guild id.
func (c *InMemory) GuildName(id gateway.Snowflake) (string, bool) {
	return c.guilds.Get(id)
}

// StoreUser records user, replacing any older copy.
func (c *InMemory) StoreUser(user gateway.User) {
	if user.ID == 0 {
		return
	}
	c.users.Add(user.ID, user)
}

// User returns the cached user id.
func (c *InMemory) User(id gateway.Snowflake) (gateway.User, bool) {
	return c.users.Get(id)
}

// Stats reports how many guilds and users are cached.
func (c *InMemory) Stats() (guilds, users int) {
	return c.guilds.Len(), c.users.Len()
}
