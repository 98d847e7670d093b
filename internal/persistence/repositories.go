package persistence

import "context"

// KeyValueStore persists string entries that must survive a restart.
type KeyValueStore interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the keys; absent keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
