package recommend

import "context"

// traceIDKey carries the request or run id through engine calls so ranker,
// updater and scheduler log lines can be correlated.
type traceIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns "" when ctx carries no id.
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
