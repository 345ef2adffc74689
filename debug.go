package paystream

import "context"

type contextKey string

const debugKey contextKey = "paystream_debug"

// WithDebug returns a context that enables debug logging for requests
// issued with it. When enabled the client logs one line per completed
// request via log/slog at Debug level; otherwise it logs nothing.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

func debugEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}
