package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/resama/internal/apiclient"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func componentLogger(ctx context.Context, base *slog.Logger, component, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"component", component}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel, validation and request errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnauthorized), apiclient.IsUnauthorized(err):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, apiclient.ErrTimeout):
		return "timeout"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}
	var fErr *domain.InvalidFilterError
	if errors.As(err, &fErr) {
		return "invalid_filter"
	}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Status == 404 {
			return "not_found"
		}
		return "request"
	}

	return "unexpected"
}
