package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/example/resama/internal/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS client_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Storage is a persistence.KeyValueStore backed by a SQLite file.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

var _ persistence.KeyValueStore = (*Storage)(nil)

// Open opens (creating if needed) the database at dsn. Call Migrate before use.
func Open(dsn string) (*Storage, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("sqlite: dsn is required")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite: open %s", dsn)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	return &Storage{db: db, now: time.Now}, nil
}

// Close releases the underlying connection.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the client_state table.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA journal_mode = WAL`); err != nil {
		return mapError(errors.Wrap(err, "sqlite: enable wal"))
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return mapError(errors.Wrap(err, "sqlite: create client_state"))
	}
	return nil
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", persistence.ErrInvalidKey
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM client_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", persistence.ErrNotFound
	}
	if err != nil {
		return "", mapError(errors.Wrapf(err, "sqlite: get %s", key))
	}
	return value, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return persistence.ErrInvalidKey
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return mapError(errors.Wrapf(err, "sqlite: set %s", key))
	}
	return nil
}

// Delete removes all keys in one transaction so the session entries disappear together.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		for _, key := range keys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM client_state WHERE key = ?`, key); err != nil {
				return errors.Wrapf(err, "sqlite: delete %s", key)
			}
		}
		return nil
	})
}

// UpdatedAt returns when key was last written.
func (s *Storage) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM client_state WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, persistence.ErrNotFound
	}
	if err != nil {
		return time.Time{}, mapError(errors.Wrapf(err, "sqlite: updated_at %s", key))
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "sqlite: parse updated_at for %s", key)
	}
	return parsed, nil
}
