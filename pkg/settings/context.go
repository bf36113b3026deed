package settings

import "context"

// runKey carries the *Run of the current invocation.
type runKey struct{}

// IntoContext attaches the options of this invocation to ctx. The pointer is
// stored as is, so later changes to r are visible through FromContext.
func IntoContext(ctx context.Context, r *Run) context.Context {
	return context.WithValue(ctx, runKey{}, r)
}

// FromContext returns the *Run set by the root command's pre-run hook, or
// false when ctx was not derived from it.
func FromContext(ctx context.Context) (*Run, bool) {
	r, ok := ctx.Value(runKey{}).(*Run)
	return r, ok
}
