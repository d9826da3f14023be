package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults verifies the defaults applied when nothing is configured.
func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Bot.LogLevel)
	assert.Equal(t, "hb.", cfg.Bot.CommandPrefix)
	assert.Equal(t, 1, cfg.Bot.ShardCount)
	assert.Equal(t, DefaultWhitelistCredentialsKey, cfg.Database.WhitelistCredentialsKey)
	assert.Equal(t, 9090, cfg.Admin.Port)
	assert.Equal(t, 4, cfg.Workers.Count)
	assert.Equal(t, 1024, cfg.Workers.QueueSize)
	assert.Equal(t, "@every 1m", cfg.Workers.PruneSchedule)
}

// TestLoadFromEnv verifies that environment variables override defaults.
func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HARTEX_BOT_LOG_LEVEL", "verbose")
	t.Setenv("HARTEX_BOT_COMMAND_PREFIX", "!")
	t.Setenv("HARTEX_ADMIN_PORT", "8181")
	t.Setenv("HARTEX_WORKERS_COUNT", "8")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "verbose", cfg.Bot.LogLevel)
	assert.Equal(t, "!", cfg.Bot.CommandPrefix)
	assert.Equal(t, 8181, cfg.Admin.Port)
	assert.Equal(t, 8, cfg.Workers.Count)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := []byte("bot:\n  command_prefix: \"hx.\"\n  shard_count: 4\nworkers:\n  queue_size: 64\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hartex.yaml"), content, 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "hx.", cfg.Bot.CommandPrefix)
	assert.Equal(t, 4, cfg.Bot.ShardCount)
	assert.Equal(t, 64, cfg.Workers.QueueSize)
}

// TestLoadValidationErrors verifies that invalid values are rejected.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "Invalid log level",
			envVars: map[string]string{"HARTEX_BOT_LOG_LEVEL": "chatty"},
		},
		{
			name:    "Port out of range",
			envVars: map[string]string{"HARTEX_ADMIN_PORT": "999999"},
		},
		{
			name:    "Zero workers",
			envVars: map[string]string{"HARTEX_WORKERS_COUNT": "0"},
		},
		{
			name:    "Prefix too long",
			envVars: map[string]string{"HARTEX_BOT_COMMAND_PREFIX": "averyverylongprefix"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for name, value := range tc.envVars {
				t.Setenv(name, value)
			}

			cfg, err := Load()

			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
			assert.Nil(t, cfg)
		})
	}
}
