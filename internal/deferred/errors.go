package deferred

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hartex/hartex/internal/redact"
)

// Kind classifies a task failure.
type Kind int

// Failure kinds.
const (
	KindConfigurationMissing Kind = iota + 1
	KindConnectionFailure
	KindRemoteOperationFailure
)

// Sentinels for errors.Is checks against *Error values.
var (
	ErrConfigurationMissing   = errors.New("configuration missing")
	ErrConnectionFailure      = errors.New("connection failure")
	ErrRemoteOperationFailure = errors.New("remote operation failure")

	// ErrDiscarded completes a task that was discarded before it started.
	ErrDiscarded = errors.New("deferred: task discarded before start")
)

// String returns the metric label for k.
func (k Kind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "configuration_missing"
	case KindConnectionFailure:
		return "connection_failure"
	case KindRemoteOperationFailure:
		return "remote_operation_failure"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfigurationMissing:
		return ErrConfigurationMissing
	case KindConnectionFailure:
		return ErrConnectionFailure
	case KindRemoteOperationFailure:
		return ErrRemoteOperationFailure
	default:
		return nil
	}
}

// Error is the single reported form of a task failure. It deliberately does
// not wrap the low-level cause.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// ConfigurationMissing reports a required configuration value that could not
// be resolved. cause may be nil.
func ConfigurationMissing(ctx context.Context, log *slog.Logger, message string, cause error) *Error {
	return newError(ctx, log, KindConfigurationMissing, message, cause)
}

// ConnectionFailure reports a failure to establish a connection.
func ConnectionFailure(ctx context.Context, log *slog.Logger, message string, cause error) *Error {
	return newError(ctx, log, KindConnectionFailure, message, cause)
}

// RemoteOperationFailure reports a failure of the remote operation itself.
func RemoteOperationFailure(ctx context.Context, log *slog.Logger, message string, cause error) *Error {
	return newError(ctx, log, KindRemoteOperationFailure, message, cause)
}

func newError(ctx context.Context, log *slog.Logger, kind Kind, message string, cause error) *Error {
	attrs := []any{"kind", kind.String()}
	if cause != nil {
		attrs = append(attrs, "error", cause)
	}
	if log == nil {
		log = slog.Default()
	}
	log.ErrorContext(ctx, message, attrs...)

	if cause != nil {
		message = message + ": " + redact.Error(cause)
	}
	return &Error{Kind: kind, Message: message}
}
