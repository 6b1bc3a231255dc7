// Package sqlite implements a SQLite-backed WatchlistStore so the
// watchlist survives process restarts without touching handler logic.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	markettypes "github.com/junohq/agentskills/pkg/types/market"
)

const schema = `
CREATE TABLE IF NOT EXISTS watchlist (
	symbol TEXT PRIMARY KEY,
	asset_type TEXT NOT NULL,
	target_price REAL,
	alert_type TEXT NOT NULL DEFAULT '',
	added_at TIMESTAMP NOT NULL
);
`

// Store implements WatchlistStore using a SQLite database.
type Store struct {
	dbPath string
	db     *sqlx.DB
}

var _ markettypes.WatchlistStore = &Store{}

// NewStore opens (or creates) the watchlist database at dbPath.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create database directory")
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := configureDatabase(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure database")
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	return &Store{dbPath: dbPath, db: db}, nil
}

// configureDatabase sets up SQLite pragmas for WAL mode operation.
func configureDatabase(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}
	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)
	return nil
}

// Add upserts the entry keyed by its uppercase symbol.
func (s *Store) Add(ctx context.Context, entry markettypes.WatchlistEntry) error {
	entry.Symbol = strings.ToUpper(entry.Symbol)
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO watchlist (symbol, asset_type, target_price, alert_type, added_at)
		VALUES (:symbol, :asset_type, :target_price, :alert_type, :added_at)
		ON CONFLICT(symbol) DO UPDATE SET
			asset_type = excluded.asset_type,
			target_price = excluded.target_price,
			alert_type = excluded.alert_type,
			added_at = excluded.added_at`,
		entry)
	return errors.Wrap(err, "failed to upsert watchlist entry")
}

// Remove deletes the entry for symbol, returning false when absent.
func (s *Store) Remove(ctx context.Context, symbol string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM watchlist WHERE symbol = ?", strings.ToUpper(symbol))
	if err != nil {
		return false, errors.Wrap(err, "failed to delete watchlist entry")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return affected > 0, nil
}

// List returns all entries ordered by symbol.
func (s *Store) List(ctx context.Context) ([]markettypes.WatchlistEntry, error) {
	var entries []markettypes.WatchlistEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT symbol, asset_type, target_price, alert_type, added_at FROM watchlist ORDER BY symbol")
	if err != nil {
		return nil, errors.Wrap(err, "failed to list watchlist entries")
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
