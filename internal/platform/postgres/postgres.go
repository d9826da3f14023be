package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/redact"
)

// Pool settings applied by Open.
const (
	maxOpenConns    = 5
	maxIdleConns    = 2
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// DBTX is implemented by both *sql.DB and *sql.Tx, so queries can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// Open opens a pooled handle for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*sql.DB, error) {
	log = logger.OrDefault(log).With("component", "postgres")

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.ErrorContext(ctx, "database ping failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.DebugContext(ctx, "database connection verified",
		"dsn", redact.String(dsn),
		"duration_ms", time.Since(start).Milliseconds())
	return db, nil
}
