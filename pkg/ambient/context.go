package ambient

import "context"

type contextKey struct{}

// WithContext stores s in ctx.
func WithContext(ctx context.Context, s *Snapshot) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the Snapshot stored in ctx, or nil. A nil Snapshot is
// safe to use: every lookup returns its default and Raw returns empty maps.
func FromContext(ctx context.Context) *Snapshot {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(contextKey{}).(*Snapshot)
	return s
}
