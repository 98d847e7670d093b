package http

import (
	"context"
	"log/slog"

	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/logging"
)

type contextKey string

const userContextKey contextKey = "user"

// ContextWithUser returns a derived context containing the signed-in user.
func ContextWithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext extracts the signed-in user from context if available.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(domain.User)
	return user, ok
}

// ContextWithLogger attaches the request logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request logger, or nil outside a request.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
