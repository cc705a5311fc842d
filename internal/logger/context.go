package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Shared fallback so FromContext never allocates on the miss path.
var nop = zap.NewNop()

// ContextWithLogger returns a context carrying l. The request middleware
// uses this to hand each handler a logger tagged with the request id.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx, or a no-op logger when
// the context was never tagged. Callers can log unconditionally.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return nop
}
