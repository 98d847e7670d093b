package http

import (
	"cmp"
	"context"
	"log/slog"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return cmp.Or(logger, slog.Default())
}

// handlerLogger prefers the request logger installed by RequestLogger and
// tags it with the handler, the operation and the signed-in person.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := cmp.Or(LoggerFromContext(ctx), fallback, slog.Default()).With("handler", handlerName)
	if operation != "" {
		logger = logger.With("operation", operation)
	}
	if user, ok := UserFromContext(ctx); ok {
		logger = logger.With("person_id", user.PersonID, "role", string(user.Role))
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}
