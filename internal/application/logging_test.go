package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/logging"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestComponentLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	baseLogger := slog.New(slog.NewJSONHandler(&base, nil))
	ctxLogger := slog.New(slog.NewJSONHandler(&scoped, nil))
	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)

	componentLogger(ctx, baseLogger, "Queries", "Rooms", "cache_key", "rooms").Info("read")

	if base.Len() != 0 {
		t.Fatalf("expected base logger to stay silent, got %s", base.String())
	}
	var record map[string]any
	if err := json.Unmarshal(scoped.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["component"] != "Queries" || record["operation"] != "Rooms" || record["cache_key"] != "rooms" {
		t.Fatalf("unexpected attributes: %v", record)
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrForbidden, "forbidden"},
		{fmt.Errorf("wrap: %w", ErrNotAuthenticated), "not_authenticated"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{&apiclient.RequestError{Status: 401}, "unauthorized"},
		{&apiclient.RequestError{Status: 404}, "not_found"},
		{&apiclient.RequestError{Status: 409}, "request"},
		{fmt.Errorf("get: %w", apiclient.ErrTimeout), "timeout"},
		{context.Canceled, "canceled"},
		{&ValidationError{FieldErrors: map[string]string{"motif": "requis"}}, "validation"},
		{&domain.InvalidFilterError{Field: "dateFin"}, "invalid_filter"},
		{io.ErrUnexpectedEOF, "unexpected"},
	}
	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
