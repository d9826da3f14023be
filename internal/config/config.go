package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"      validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"    validate:"required"`
	Workers  WorkersConfig  `mapstructure:"workers"  validate:"required"`
}

// BotConfig contains settings for the bot process itself.
type BotConfig struct {
	LogLevel      string `mapstructure:"log_level"      validate:"required,oneof=verbose debug info warn error"`
	CommandPrefix string `mapstructure:"command_prefix" validate:"required,max=8"`
	ShardCount    int    `mapstructure:"shard_count"    validate:"gte=1"`
}

// DatabaseConfig names where database credentials come from. The credential
// itself is deliberately not part of Config: it is read from a Source by the
// task that needs it.
type DatabaseConfig struct {
	WhitelistCredentialsKey string `mapstructure:"whitelist_credentials_key" validate:"required"`
	MigrationsTable         string `mapstructure:"migrations_table"          validate:"required"`
}

// AdminConfig configures the admin HTTP listener (health, metrics, debug).
type AdminConfig struct {
	Port int `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// WorkersConfig sizes the dispatch worker pool.
type WorkersConfig struct {
	Count         int    `mapstructure:"count"          validate:"gte=1,lte=256"`
	QueueSize     int    `mapstructure:"queue_size"     validate:"gte=1"`
	PruneSchedule string `mapstructure:"prune_schedule" validate:"required"`
}
