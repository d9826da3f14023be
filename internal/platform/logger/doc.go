// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels. On top of the slog levels it defines LevelVerbose, the
// lowest severity, used for lifecycle chatter (shard state changes, task starts).
package logger
