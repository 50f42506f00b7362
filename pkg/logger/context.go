package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a context carrying a logger extended with the given fields.
// Middleware uses it to thread the trace id into every request log.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// From returns the logger stored in context, or the process logger if none.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
