package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// With stores a logger enriched with attrs in the context, so request-scoped
// attributes (request id, user id) follow the call chain.
func With(ctx context.Context, attrs ...any) context.Context {
	l := From(ctx).With(attrs...)
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger stored in context, or the process default if missing.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
