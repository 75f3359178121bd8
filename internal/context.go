package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextTraceKey ctxKey = "traceID"

// TraceIDFromContext returns the request trace ID, or "" outside an HTTP request.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(ContextTraceKey).(string); ok {
		return traceID
	}
	return ""
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ContextTraceKey, traceID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
