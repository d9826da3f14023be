package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hartex/hartex/internal/config"
)

// LevelVerbose sits below slog.LevelDebug.
const LevelVerbose = slog.LevelDebug - 4

type contextKey struct{}

// ParseLevel maps a configured level name to a slog level.
// The second return value is false for unknown names.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "verbose":
		return LevelVerbose, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes the application's logging system based on the provided
// configuration. It creates a structured JSON logger on stdout with the
// configured level and sets it as the default logger for the application.
func Setup(cfg config.BotConfig) (*slog.Logger, error) {
	return setup(cfg, os.Stdout), nil
}

// SetupTo is Setup writing to out. The CLI logs to stderr so command output
// stays machine readable.
func SetupTo(cfg config.BotConfig, out io.Writer) *slog.Logger {
	return setup(cfg, out)
}

func setup(cfg config.BotConfig, out io.Writer) *slog.Logger {
	level, ok := ParseLevel(cfg.LogLevel)
	if !ok {
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.LogLevel,
			"default_level", "info")
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelName,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// replaceLevelName renders LevelVerbose as "VERBOSE" instead of "DEBUG-4".
func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelVerbose {
		a.Value = slog.StringValue("VERBOSE")
	}
	return a
}

// Verbose logs msg at LevelVerbose.
func Verbose(ctx context.Context, l *slog.Logger, msg string, args ...any) {
	l.Log(ctx, LevelVerbose, msg, args...)
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}

// OrDefault returns l, or slog.Default when l is nil.
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
