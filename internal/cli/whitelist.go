package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hartex/hartex/internal/whitelist"
)

// NewWhitelistCmd creates the "whitelist" subcommand group.
func NewWhitelistCmd(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whitelist",
		Short: "List and edit the guilds allowed to use the bot",
	}
	cmd.AddCommand(newWhitelistListCmd(deps))
	cmd.AddCommand(newWhitelistAddCmd(deps))
	cmd.AddCommand(newWhitelistRemoveCmd(deps))
	return cmd
}

func newWhitelistListCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every whitelisted guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, deps)
			if err != nil {
				return err
			}

			lookup := rt.loader().GetWhitelistedGuilds()
			defer lookup.Discard()

			guilds, err := lookup.Await(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GUILD ID\tNAME\tWHITELISTED SINCE")
			for _, g := range guilds {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", g.ID, g.Name, g.WhitelistedSince.UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newWhitelistAddCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "add <guild-id> <name>",
		Short: "Whitelist a guild",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGuildID(args[0])
			if err != nil {
				return err
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
			defer db.Close()

			guild := whitelist.Guild{ID: id, Name: strings.Join(args[1:], " ")}
			if err := whitelist.NewStore(db).Add(ctx, guild); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Whitelisted guild %d (%s)\n", guild.ID, guild.Name)
			return nil
		},
	}
}

func newWhitelistRemoveCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <guild-id>",
		Short: "Remove a guild from the whitelist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGuildID(args[0])
			if err != nil {
				return err
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
			defer db.Close()

			if err := whitelist.NewStore(db).Remove(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed guild %d from the whitelist\n", id)
			return nil
		},
	}
}

func parseGuildID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid guild id %q", s)
	}
	return id, nil
}
