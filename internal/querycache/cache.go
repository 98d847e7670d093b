// Package querycache is the process-wide read cache shared by every view:
// per-key stale windows, request de-duplication, and family invalidation on
// successful mutations.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultMaxEntries = 256

// Cache holds read-only snapshots of backend data. Returned values are shared
// between callers and must not be mutated.
type Cache struct {
	mu          sync.Mutex
	now         func() time.Time
	maxEntries  int
	logger      *slog.Logger
	entries     map[Key]*entry
	generations map[string]uint64
	epoch       uint64
	stats       Stats

	flights singleflight.Group
}

type entry struct {
	value       any
	fetchedAt   time.Time
	staleAfter  time.Time
	invalidated bool
}

func (e *entry) stale(now time.Time) bool {
	return e.invalidated || !now.Before(e.staleAfter)
}

// Stats counts cache activity since creation.
type Stats struct {
	Entries  int
	Hits     int
	Fetches  int
	Failures int
}

// Snapshot describes a cached entry without refreshing it.
type Snapshot struct {
	Value      any
	FetchedAt  time.Time
	StaleAfter time.Time
	Stale      bool
}

// Option customises a Cache.
type Option func(*Cache)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxEntries bounds the number of cached keys.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithLogger sets the logger for fetch failures and invalidations. A nil logger keeps slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		now:         time.Now,
		maxEntries:  defaultMaxEntries,
		logger:      slog.Default(),
		entries:     make(map[Key]*entry),
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the cached value for key while it is fresh. Otherwise it runs
// fetch, at most once per key for concurrent callers, and caches the result
// for staleWindow. When fetch fails the entry is left untouched and the
// previous value, if any, is returned together with the error.
func Read[T any](ctx context.Context, c *Cache, key Key, staleWindow time.Duration, fetch func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	now := c.now()
	current, cached := c.entries[key]
	if cached && !current.stale(now) {
		c.stats.Hits++
		value := current.value
		c.mu.Unlock()
		return cast[T](key, value)
	}
	var previous any
	if cached {
		previous = current.value
	}
	generation := c.generations[key.Family()]
	epoch := c.epoch
	c.mu.Unlock()

	flightKey := key.String() + "#" + strconv.FormatUint(epoch, 10) + "." + strconv.FormatUint(generation, 10)
	results := c.flights.DoChan(flightKey, func() (any, error) {
		// The flight outlives callers that stop waiting for it.
		value, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			c.recordFailure(key, err)
			return nil, err
		}
		c.store(key, value, staleWindow, epoch, generation)
		return value, nil
	})

	select {
	case res := <-results:
		if res.Err != nil {
			if previous != nil {
				if typed, castErr := cast[T](key, previous); castErr == nil {
					return typed, res.Err
				}
			}
			return zero, res.Err
		}
		return cast[T](key, res.Val)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Mutate runs mutate and, only when it succeeds, invalidates the family of
// every key in invalidates.
func Mutate[T any](ctx context.Context, c *Cache, mutate func(ctx context.Context) (T, error), invalidates ...Key) (T, error) {
	result, err := mutate(ctx)
	if err != nil {
		return result, err
	}
	c.Invalidate(invalidates...)
	return result, nil
}

// Lookup returns the cached value for key even when it is stale.
func Lookup[T any](c *Cache, key Key) (T, bool) {
	var zero T
	snap, ok := c.Peek(key)
	if !ok {
		return zero, false
	}
	typed, ok := snap.Value.(T)
	return typed, ok
}

// Invalidate marks every entry sharing a family with one of keys as stale.
func (c *Cache) Invalidate(keys ...Key) {
	families := make([]string, 0, len(keys))
	for _, key := range keys {
		families = append(families, key.Family())
	}
	c.InvalidateFamilies(families...)
}

// InvalidateFamilies marks every entry of the named families as stale. Fetches
// already in flight for those families store their result as stale.
func (c *Cache) InvalidateFamilies(families ...string) {
	if len(families) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	marked := make(map[string]struct{}, len(families))
	for _, family := range families {
		family = familyOf(family)
		if _, done := marked[family]; done || family == "" {
			continue
		}
		marked[family] = struct{}{}
		c.generations[family]++
	}
	count := 0
	for key, e := range c.entries {
		if _, hit := marked[key.Family()]; hit {
			e.invalidated = true
			count++
		}
	}
	c.logger.Debug("cache families invalidated", "component", "querycache", "families", families, "entries", count)
}

// Clear drops every entry; in-flight results are stored as stale.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.epoch++
}

// Peek reports the cached entry for key without fetching.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Value:      e.value,
		FetchedAt:  e.fetchedAt,
		StaleAfter: e.staleAfter,
		Stale:      e.stale(c.now()),
	}, true
}

// Stats returns activity counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = len(c.entries)
	return stats
}

func (c *Cache) store(key Key, value any, staleWindow time.Duration, epoch, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.stats.Fetches++
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked(now)
	}

	e := &entry{value: value, fetchedAt: now, staleAfter: now.Add(staleWindow)}
	if epoch != c.epoch || generation != c.generations[key.Family()] {
		// Invalidated while fetching: the data may predate the mutation.
		e.invalidated = true
	}
	c.entries[key] = e
}

func (c *Cache) recordFailure(key Key, err error) {
	c.mu.Lock()
	c.stats.Failures++
	c.mu.Unlock()
	c.logger.Debug("cache fetch failed", "component", "querycache", "key", key.String(), "error", err)
}

// evictOneLocked drops a stale entry when there is one, else the oldest.
func (c *Cache) evictOneLocked(now time.Time) {
	var (
		victim    Key
		oldest    time.Time
		hasVictim bool
	)
	for key, e := range c.entries {
		if e.stale(now) {
			delete(c.entries, key)
			return
		}
		if !hasVictim || e.fetchedAt.Before(oldest) {
			victim, oldest, hasVictim = key, e.fetchedAt, true
		}
	}
	if hasVictim {
		delete(c.entries, victim)
	}
}

func cast[T any](key Key, value any) (T, error) {
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("querycache: %s holds %T, not %T", key, value, zero)
	}
	return typed, nil
}
