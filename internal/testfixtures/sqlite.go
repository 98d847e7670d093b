package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/resama/internal/persistence/sqlite"
)

// NewSQLiteStore opens and migrates a store in a temporary directory. It is
// closed with tb.
func NewSQLiteStore(tb testing.TB) *sqlite.Storage {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "resama.db")
	storage, err := sqlite.Open(path)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	tb.Cleanup(func() { _ = storage.Close() })
	return storage
}
