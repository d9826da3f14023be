package whitelist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hartex/hartex/internal/config"
	"github.com/hartex/hartex/internal/deferred"
	"github.com/hartex/hartex/internal/platform/logger"
	"github.com/hartex/hartex/internal/platform/postgres"
)

// TaskName labels the lookup in logs and metrics.
const TaskName = "get_whitelisted_guilds"

const selectGuildsQuery = `SELECT "GuildName", "GuildId", "WhitelistedSince" FROM public."Whitelist"`

// Guild is one whitelist row.
type Guild struct {
	ID               uint64
	Name             string
	WhitelistedSince time.Time
}

// Opener opens a database handle for a connection string.
type Opener interface {
	Open(ctx context.Context, dsn string) (*sql.DB, error)
}

// PgxOpener opens pooled handles through the pgx database/sql driver and
// verifies them with a ping.
type PgxOpener struct {
	Logger *slog.Logger
}

// Open implements Opener.
func (o PgxOpener) Open(ctx context.Context, dsn string) (*sql.DB, error) {
	return postgres.Open(ctx, dsn, o.Logger)
}

// Loader builds whitelist lookups.
type Loader struct {
	Source config.Source
	Opener Opener
	// CredentialsKey names the Source key holding the connection string.
	// Empty means config.DefaultWhitelistCredentialsKey.
	CredentialsKey string
	Logger         *slog.Logger
}

// GetWhitelistedGuilds returns a task that, once awaited, resolves the
// credentials, connects and reads every whitelisted guild. Building the task
// touches nothing.
func (l *Loader) GetWhitelistedGuilds() *deferred.Task[[]Guild] {
	log := logger.OrDefault(l.Logger).With("component", "whitelist")
	return deferred.New(TaskName, func(ctx context.Context) (deferred.Run[[]Guild], error) {
		return l.setup(ctx, log)
	}, log)
}

func (l *Loader) setup(ctx context.Context, log *slog.Logger) (deferred.Run[[]Guild], error) {
	key := l.CredentialsKey
	if key == "" {
		key = config.DefaultWhitelistCredentialsKey
	}
	if l.Source == nil {
		return nil, deferred.ConfigurationMissing(ctx, log, "failed to get database credentials", errors.New("no configuration source"))
	}
	dsn, ok := l.Source.Lookup(key)
	if !ok {
		return nil, deferred.ConfigurationMissing(ctx, log, "failed to get database credentials", fmt.Errorf("%s is not set", key))
	}

	opener := l.Opener
	if opener == nil {
		opener = PgxOpener{Logger: log}
	}
	db, err := opener.Open(ctx, dsn)
	if err != nil {
		return nil, deferred.ConnectionFailure(ctx, log, "failed to connect to postgres database", err)
	}

	return func(ctx context.Context) ([]Guild, error) {
		defer func() { _ = db.Close() }()
		return queryGuilds(ctx, db, log)
	}, nil
}

func queryGuilds(ctx context.Context, db postgres.DBTX, log *slog.Logger) ([]Guild, error) {
	rows, err := db.QueryContext(ctx, selectGuildsQuery)
	if err != nil {
		return nil, queryFailure(ctx, log, err)
	}
	defer func() { _ = rows.Close() }()

	var guilds []Guild
	for rows.Next() {
		var (
			g  Guild
			id int64
		)
		if err := rows.Scan(&g.Name, &id, &g.WhitelistedSince); err != nil {
			return nil, deferred.RemoteOperationFailure(ctx, log, "failed to scan whitelist row", err)
		}
		g.ID = uint64(id)
		guilds = append(guilds, g)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailure(ctx, log, err)
	}

	logger.Verbose(ctx, log, "loaded whitelisted guilds", "count", len(guilds))
	return guilds, nil
}

// queryFailure reports a failed statement. The pooled handle can drop after the
// initial ping, and that is a connection failure rather than a query failure.
func queryFailure(ctx context.Context, log *slog.Logger, err error) error {
	if postgres.IsConnectionError(err) {
		return deferred.ConnectionFailure(ctx, log, "lost connection to postgres database", err)
	}
	return deferred.RemoteOperationFailure(ctx, log, "failed to execute sql query", err)
}

// Contains reports whether id is among guilds.
func Contains(guilds []Guild, id uint64) bool {
	for _, g := range guilds {
		if g.ID == id {
			return true
		}
	}
	return false
}
