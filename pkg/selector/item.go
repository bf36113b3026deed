// Package selector implements the interaction model behind the launcher
// popup: a filterable list of items, a bounded cursor over the filtered
// view and the focus bookkeeping that decides when the popup goes away.
//
// The model never performs side effects. Every transition returns the next
// State together with at most one Effect that the caller must carry out.
package selector

import "context"

// Item is anything the launcher can list and act upon.
type Item interface {
	// Title is the text shown in the list and matched by the filter.
	Title() string
	// Invoke performs the item's action.
	Invoke(ctx context.Context) error
}

// Source produces the full item collection. It is called once per session.
type Source[T Item] interface {
	Load(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc[T Item] func(ctx context.Context) ([]T, error)

// Load calls f.
func (f SourceFunc[T]) Load(ctx context.Context) ([]T, error) {
	return f(ctx)
}
