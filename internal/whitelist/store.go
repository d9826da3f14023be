package whitelist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hartex/hartex/internal/platform/postgres"
)

// ErrAlreadyWhitelisted is returned by Store.Add for a guild already present.
var ErrAlreadyWhitelisted = errors.New("guild is already whitelisted")

// ErrNotWhitelisted is returned by Store.Remove for an unknown guild.
var ErrNotWhitelisted = errors.New("guild is not whitelisted")

const (
	insertGuildQuery = `INSERT INTO public."Whitelist" ("GuildName", "GuildId", "WhitelistedSince") VALUES ($1, $2, $3)`
	deleteGuildQuery = `DELETE FROM public."Whitelist" WHERE "GuildId" = $1`
)

// Store edits the whitelist table. Reads go through Loader.
type Store struct {
	db postgres.DBTX
}

// NewStore wraps an open handle or transaction.
func NewStore(db postgres.DBTX) *Store {
	return &Store{db: db}
}

// Add whitelists a guild. A zero WhitelistedSince means now.
func (s *Store) Add(ctx context.Context, g Guild) error {
	since := g.WhitelistedSince
	if since.IsZero() {
		since = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, insertGuildQuery, g.Name, int64(g.ID), since)
	if err := postgres.MapError(err); err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return fmt.Errorf("%w: %d", ErrAlreadyWhitelisted, g.ID)
		}
		return fmt.Errorf("insert guild %d: %w", g.ID, err)
	}
	return nil
}

// Remove drops a guild from the whitelist.
func (s *Store) Remove(ctx context.Context, id uint64) error {
	result, err := s.db.ExecContext(ctx, deleteGuildQuery, int64(id))
	if err != nil {
		return fmt.Errorf("delete guild %d: %w", id, err)
	}
	if err := postgres.CheckRowsAffected(result, "guild"); err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrNotWhitelisted, id)
		}
		return err
	}
	return nil
}
