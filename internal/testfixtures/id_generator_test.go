package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("")

	first := gen.Next()
	second := gen.Next()

	if first != "session-1" || second != "session-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
	if gen.Issued() != 2 {
		t.Fatalf("expected 2 issued identifiers, got %d", gen.Issued())
	}
}

func TestIDGeneratorNextFunc(t *testing.T) {
	next := NewIDGenerator("login").NextFunc()
	if got := next(); got != "login-1" {
		t.Fatalf("expected login-1, got %q", got)
	}

	var nilGen *IDGenerator
	if got := nilGen.NextFunc()(); got != "" {
		t.Fatalf("nil generator should yield empty ids, got %q", got)
	}
}
