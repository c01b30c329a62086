package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/pocket/internal/database"
)

// Store keeps key/value pairs in the kv table.
type Store struct {
	db       *sql.DB
	getQuery string
	setQuery string
}

func New(db *sql.DB, driver database.Driver) *Store {
	s := &Store{
		db: db,
		getQuery: `
			SELECT value
			FROM kv
			WHERE key = ?
		`,
		setQuery: `
			INSERT INTO kv (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE
			SET value = excluded.value, updated_at = excluded.updated_at
		`,
	}

	if driver == database.DriverPostgres {
		s.getQuery = `
			SELECT value
			FROM kv
			WHERE key = $1
		`
		s.setQuery = `
			INSERT INTO kv (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE
			SET value = excluded.value, updated_at = excluded.updated_at
		`
	}

	return s
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx, s.getQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("getting %q: %w", key, err)
	}

	return value, true, nil
}

// Set upserts the value in one statement, so readers see either the old or the new value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.setQuery, key, value); err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}

	return nil
}
