package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/resama/internal/persistence"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	storage, err := Open(filepath.Join(t.TempDir(), "resama.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	if err := storage.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	return storage
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newTestStorage(t)
	fixed := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return fixed }

	if _, err := storage.Get(ctx, persistence.KeyUser); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := storage.Set(ctx, persistence.KeyUser, `{"personId":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := storage.Set(ctx, persistence.KeyAuthToken, "demo-token"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := storage.Set(ctx, persistence.KeyAuthToken, "remote-token"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	token, err := storage.Get(ctx, persistence.KeyAuthToken)
	if err != nil || token != "remote-token" {
		t.Fatalf("expected remote-token, got %q (%v)", token, err)
	}

	updated, err := storage.UpdatedAt(ctx, persistence.KeyAuthToken)
	if err != nil {
		t.Fatalf("UpdatedAt failed: %v", err)
	}
	if !updated.Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, updated)
	}

	if err := storage.Delete(ctx, persistence.KeyUser, persistence.KeyAuthToken); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := storage.Get(ctx, persistence.KeyUser); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected user entry removed, got %v", err)
	}
}

func TestStorageSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "resama.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := first.Migrate(ctx); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if err := first.Set(ctx, persistence.KeyAuthToken, "abc"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer second.Close()
	if err := second.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	value, err := second.Get(ctx, persistence.KeyAuthToken)
	if err != nil || value != "abc" {
		t.Fatalf("expected persisted token, got %q (%v)", value, err)
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for blank dsn")
	}
}

func TestMapError(t *testing.T) {
	if mapError(nil) != nil {
		t.Fatal("expected nil")
	}
	err := mapError(errors.New("database is locked (5) (SQLITE_BUSY)"))
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	plain := errors.New("boom")
	if mapError(plain) != plain {
		t.Fatal("expected unrelated errors to pass through")
	}
}
