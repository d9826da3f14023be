package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hartex/hartex/internal/platform/postgres"
)

var migrateCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateReset,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
}

// NewMigrateCmd creates the "migrate" subcommand.
func NewMigrateCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|reset|status|version]",
		Short:     "Apply or inspect the whitelist database schema",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: migrateCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}
			if !slices.Contains(migrateCommands, command) {
				return fmt.Errorf("unknown migration command %q", command)
			}

			rt, err := loadRuntime(cmd, deps)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := rt.openWhitelistDB(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					rt.logger.Error("failed to close database connection", "error", err)
				}
			}()

			if err := postgres.Migrate(ctx, db, command, rt.cfg.Database.MigrationsTable, rt.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration %s completed\n", command)
			return nil
		},
	}
}
