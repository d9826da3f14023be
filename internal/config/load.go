package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "HARTEX"

// DefaultWhitelistCredentialsKey is the key holding the whitelist database DSN.
const DefaultWhitelistCredentialsKey = "PGSQL_CREDENTIALS_GUILDS"

// Load configuration from environment variables and optionally a hartex.yaml
// config file in the working directory. Environment variables take precedence
// over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(newViper())
}

// LoadFrom unmarshals and validates configuration from an existing viper
// instance. It is exported so callers that already own a viper instance
// (the CLI binds flags onto one) share a single view of the configuration.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("hartex")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.command_prefix", "hb.")
	v.SetDefault("bot.shard_count", 1)
	v.SetDefault("database.whitelist_credentials_key", DefaultWhitelistCredentialsKey)
	v.SetDefault("database.migrations_table", "hartex_schema_migrations")
	v.SetDefault("admin.port", 9090)
	v.SetDefault("workers.count", 4)
	v.SetDefault("workers.queue_size", 1024)
	v.SetDefault("workers.prune_schedule", "@every 1m")
}
