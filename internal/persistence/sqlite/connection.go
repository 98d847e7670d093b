package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// ErrLocked is returned when another process holds the database lock.
var ErrLocked = errors.New("sqlite: database locked")

type transactionFunc func(tx *sql.Tx) error

// withTransaction commits when fn succeeds and rolls back otherwise.
func (s *Storage) withTransaction(ctx context.Context, fn transactionFunc) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError(errors.Wrap(err, "sqlite: begin transaction"))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(mapError(err), "rollback failed: %v", rbErr)
		}
		return mapError(err)
	}

	if err := tx.Commit(); err != nil {
		return mapError(errors.Wrap(err, "sqlite: commit"))
	}
	return nil
}

// mapError turns driver lock failures into ErrLocked and leaves the rest untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY") {
		return errors.Wrap(ErrLocked, msg)
	}
	return err
}
