package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hartex/hartex/internal/config"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/whitelist"
)

// Deps replaces external collaborators. Zero fields use the real ones.
type Deps struct {
	Source config.Source
	Opener whitelist.Opener
}

// NewRootCmd builds the full command tree.
func NewRootCmd(version string, deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "hartex",
		Short: "HarTex event core",
		Long:  "HarTex dispatches Discord gateway events and custom bot events to their handlers.",
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "", "Override bot.log_level (verbose, debug, info, warn, error)")

	root.Version = version
	root.SetVersionTemplate(fmt.Sprintf("hartex version %s\n", version))

	root.AddCommand(NewRunCmd(version, deps))
	root.AddCommand(NewMigrateCmd(deps))
	root.AddCommand(NewWhitelistCmd(deps))
	return root
}

// runtime is the configuration shared by every subcommand.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	source config.Source
	opener whitelist.Opener
}

func loadRuntime(cmd *cobra.Command, deps Deps) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if _, ok := logger.ParseLevel(level); !ok {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
		cfg.Bot.LogLevel = level
	}

	log := logger.SetupTo(cfg.Bot, cmd.ErrOrStderr())

	rt := &runtime{cfg: cfg, logger: log, source: deps.Source, opener: deps.Opener}
	if rt.source == nil {
		rt.source = config.NewViperSource(nil)
	}
	if rt.opener == nil {
		rt.opener = whitelist.PgxOpener{Logger: log}
	}
	return rt, nil
}

// openWhitelistDB connects with the configured whitelist credentials.
func (r *runtime) openWhitelistDB(ctx context.Context) (*sql.DB, error) {
	key := r.cfg.Database.WhitelistCredentialsKey
	dsn, ok := r.source.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("`%s` is not set", key)
	}
	return r.opener.Open(ctx, dsn)
}

func (r *runtime) loader() *whitelist.Loader {
	return &whitelist.Loader{
		Source:         r.source,
		Opener:         r.opener,
		CredentialsKey: r.cfg.Database.WhitelistCredentialsKey,
		Logger:         r.logger,
	}
}
