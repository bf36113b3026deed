package selector

import "iter"

// Phase is the coarse lifecycle position of a State.
type Phase int

const (
	// Uninitialized means no items were loaded yet.
	Uninitialized Phase = iota
	// Ready means items were loaded; the filtered view may still be empty.
	Ready
	// Terminated means the launcher should exit. No intent leaves this phase.
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// State is the selector model. It is a value; Apply returns a new one and
// never mutates the receiver's observable fields.
type State[T Item] struct {
	entry      string
	items      []T
	selected   int
	focused    bool
	loaded     bool
	terminated bool
	rowScale   float64
}

// Option configures a new State.
type Option func(*options)

type options struct {
	rowScale float64
}

// WithRowScale sets the per-row scroll scale. Non-positive values are ignored.
func WithRowScale(k float64) Option {
	return func(o *options) {
		if k > 0 {
			o.rowScale = k
		}
	}
}

// New returns an empty, unfocused, uninitialized State.
func New[T Item](opts ...Option) State[T] {
	o := options{rowScale: DefaultRowScale}
	for _, opt := range opts {
		opt(&o)
	}
	return State[T]{rowScale: o.rowScale}
}

// EntryText is the current filter text.
func (s State[T]) EntryText() string { return s.entry }

// Items is the full, unfiltered collection. Callers must not modify it.
func (s State[T]) Items() []T { return s.items }

// SelectedIndex is the cursor position within the filtered view.
func (s State[T]) SelectedIndex() int { return s.selected }

// Focused reports whether focus was ever received.
func (s State[T]) Focused() bool { return s.focused }

// RowScale is the scroll scale used for ScrollTo effects.
func (s State[T]) RowScale() float64 { return s.rowScale }

// Phase reports the lifecycle phase.
func (s State[T]) Phase() Phase {
	switch {
	case s.terminated:
		return Terminated
	case s.loaded:
		return Ready
	default:
		return Uninitialized
	}
}

// Filtered yields (original index, item) pairs matching the entry text. It is
// recomputed on every call and may be ranged over any number of times.
func (s State[T]) Filtered() iter.Seq2[int, T] {
	return filterSeq(s.items, s.entry)
}

// FilteredCount returns the size of the filtered view.
func (s State[T]) FilteredCount() int {
	n := 0
	for range s.Filtered() {
		n++
	}
	return n
}

// Selected returns the highlighted item, or false when the view is empty.
func (s State[T]) Selected() (T, bool) {
	pos := 0
	for _, it := range s.Filtered() {
		if pos == s.selected {
			return it, true
		}
		pos++
	}
	var zero T
	return zero, false
}

// Apply performs one transition. The returned Effect is nil when the caller
// has nothing to do.
func (s State[T]) Apply(in Intent) (State[T], Effect) {
	if s.terminated {
		return s, nil
	}
	switch in := in.(type) {
	case Load[T]:
		s.items = in.Items
		s.loaded = true
		if n := s.FilteredCount(); s.selected >= n {
			s.selected = max(n-1, 0)
		}
		return s, RequestFocus{}
	case UpdateFilterText:
		s.entry = in.Text
		s.selected = 0
		return s, nil
	case Navigate:
		candidate := s.selected + in.Delta
		if candidate < 0 || candidate >= s.FilteredCount() {
			return s, nil
		}
		s.selected = candidate
		return s, ScrollTo{Offset: ScrollOffset(candidate, s.rowScale)}
	case ExecuteSelected:
		it, ok := s.Selected()
		if !ok {
			return s, nil
		}
		return s, Invoke[T]{Item: it}
	case FocusGained:
		s.focused = true
		return s, nil
	case FocusLost:
		if !s.focused {
			return s, nil
		}
		s.terminated = true
		return s, Terminate{}
	case CancelRequested:
		s.terminated = true
		return s, Terminate{}
	}
	return s, nil
}
