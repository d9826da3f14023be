package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hartex/hartex/internal/app"
	"github.com/hartex/hartex/internal/dispatch"
	"github.com/hartex/hartex/internal/gateway"
	"github.com/hartex/hartex/internal/platform/console"
	"github.com/hartex/hartex/internal/task"
)

const (
	shutdownTimeout = 10 * time.Second
	replayBackoff   = 5 * time.Millisecond
	maxFrameSize    = 1 << 20
)

// NewRunCmd creates the "run" subcommand.
func NewRunCmd(version string, deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the event core",
		Long: "Run the event core with a console platform client. Events arrive through " +
			"POST /debug/events on the admin server, or from a file of gateway frames with --replay.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, version, deps)
		},
	}

	cmd.Flags().String("replay", "", "Dispatch the gateway frames in this JSON lines file, then exit")
	cmd.Flags().Int("admin-port", 0, "Override admin.port (0 picks a free port)")

	return cmd
}

// replayStats summarizes one replay.
type replayStats struct {
	dispatched int
	skipped    int
}

func runRun(cmd *cobra.Command, version string, deps Deps) error {
	rt, err := loadRuntime(cmd, deps)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("admin-port") {
		rt.cfg.Admin.Port, _ = cmd.Flags().GetInt("admin-port")
	}
	replayPath, _ := cmd.Flags().GetString("replay")

	ctx := cmd.Context()
	client := console.NewClient(rt.logger)
	a, err := app.New(ctx, app.Options{
		Config:  rt.cfg,
		Logger:  rt.logger,
		Client:  client,
		Cluster: console.Cluster{Shards: rt.cfg.Bot.ShardCount},
		Source:  rt.source,
		Opener:  rt.opener,
		Version: version,
	})
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}

	var (
		stats  replayStats
		runErr error
	)
	if replayPath == "" {
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		fmt.Fprintf(cmd.OutOrStdout(), "Admin server listening on %s\n", a.AdminAddr())
		<-sigCtx.Done()
		stop()
	} else {
		stats, runErr = replay(ctx, a, replayPath)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, err)
	}
	if runErr != nil {
		return runErr
	}

	if replayPath != "" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Replayed %d events (%d frames skipped)\n", stats.dispatched, stats.skipped)
		for _, call := range client.Calls() {
			fmt.Fprintf(out, "%s %s %q\n", call.Method, call.Target, call.Content)
		}
	}
	return nil
}

// replay submits every dispatch frame in path. Non-dispatch frames are
// skipped; a full queue is waited out rather than dropping frames.
func replay(ctx context.Context, sub *app.App, path string) (replayStats, error) {
	var stats replayStats

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open replay file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}

		event, err := gateway.Decode(data)
		if errors.Is(err, gateway.ErrNotDispatch) {
			stats.skipped++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		if err := submitWithBackoff(ctx, sub, dispatch.Native{Event: event}); err != nil {
			return stats, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		stats.dispatched++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read replay file: %w", err)
	}
	return stats, nil
}

func submitWithBackoff(ctx context.Context, sub *app.App, env dispatch.Envelope) error {
	for {
		err := sub.Submit(ctx, env)
		if !errors.Is(err, task.ErrQueueFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(replayBackoff):
		}
	}
}
