package core

import "context"

// Context keys for analysis options
type contextKey string

const (
	runIDKey        contextKey = "runID"
	skipSnapshotKey contextKey = "skipSnapshot"
)

// withRunID attaches the correlation id used in log lines of one run
func withRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the correlation id from context
func getRunID(ctx context.Context) (string, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}

// WithSkipSnapshot disables snapshot recording for derived operations
// such as training and mentoring lookups.
func WithSkipSnapshot(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipSnapshotKey, true)
}

// shouldSkipSnapshot returns whether snapshot recording is disabled in context
func shouldSkipSnapshot(ctx context.Context) bool {
	val := ctx.Value(skipSnapshotKey)
	if val == nil {
		return false // default: record when a store is configured
	}
	skip, ok := val.(bool)
	return ok && skip
}
