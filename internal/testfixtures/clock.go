package testfixtures

import (
	"sync"
	"time"
)

// referenceTime is a Wednesday in ISO week 11 of 2025, mid-morning.
var referenceTime = time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)

// ReferenceTime is the instant every fixture is anchored to.
func ReferenceTime() time.Time {
	return referenceTime
}

// Clock is a manually driven time source shared by the cache and the session
// manager in tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// NowFunc is Now as an injectable function; a nil clock yields time.Now.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward, typically past a stale window.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
