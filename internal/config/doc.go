// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional config file. It also exposes
// Source, the key/value view used by components that resolve credentials
// lazily (for example the whitelist lookup), so that a missing credential is
// reported by the operation that needs it rather than at startup.
package config
