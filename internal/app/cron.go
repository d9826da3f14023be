package app

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// cronLogger adapts slog to cron.Logger. cron passes alternating key/value
// pairs, which slog accepts as-is.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = cronLogger{}

// Info logs scheduler bookkeeping at debug; cron is chatty.
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

// Error logs scheduler failures, including recovered job panics.
func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// newScheduler builds a cron scheduler that recovers job panics and skips a
// run while the previous one is still going.
func newScheduler(log *slog.Logger) *cron.Cron {
	cl := cronLogger{logger: log.With("component", "scheduler")}
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}
