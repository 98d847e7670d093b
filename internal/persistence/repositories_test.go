package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/resama/internal/persistence"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := persistence.NewMemoryStore()

	t.Run("missing key", func(t *testing.T) {
		if _, err := store.Get(ctx, persistence.KeyUser); !errors.Is(err, persistence.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set, overwrite and delete", func(t *testing.T) {
		if err := store.Set(ctx, persistence.KeyAuthToken, "first"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, persistence.KeyAuthToken, "second"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, err := store.Get(ctx, persistence.KeyAuthToken)
		if err != nil || value != "second" {
			t.Fatalf("expected second, got %q (%v)", value, err)
		}

		if err := store.Delete(ctx, persistence.KeyAuthToken, "absent"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if store.Len() != 0 {
			t.Fatalf("expected empty store, got %d entries", store.Len())
		}
	})

	t.Run("rejects blank keys", func(t *testing.T) {
		if err := store.Set(ctx, " ", "x"); !errors.Is(err, persistence.ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey, got %v", err)
		}
	})
}
