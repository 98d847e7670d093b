package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator yields predictable session identifiers ("session-1", "session-2", ...).
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	issued uint64
}

func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "session"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return fmt.Sprintf("%s-%d", g.prefix, g.issued)
}

// NextFunc is Next as an injectable function.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

// Issued reports how many identifiers were handed out.
func (g *IDGenerator) Issued() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}
