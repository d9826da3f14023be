// Package whitelist reads the set of guilds the bot is allowed to stay in.
//
// The lookup is exposed as a deferred.Task so callers can build it where the
// event arrives and only pay for the database round trip when they await it.
package whitelist
