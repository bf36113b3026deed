package selector

import "fmt"

// Effect is an instruction for the caller. A nil Effect means nothing to do.
type Effect interface {
	isEffect()
}

// RequestFocus asks the caller to focus the text entry.
type RequestFocus struct{}

// ScrollTo asks the caller to scroll the list to a relative offset. Offset is
// not clamped; callers clamp it to [0, 1].
type ScrollTo struct {
	Offset float64
}

// Invoke asks the caller to run Item's action.
type Invoke[T Item] struct {
	Item T
}

// Terminate asks the caller to shut the launcher down.
type Terminate struct{}

func (RequestFocus) isEffect() {}
func (ScrollTo) isEffect()     {}
func (Invoke[T]) isEffect()    {}
func (Terminate) isEffect()    {}

func (RequestFocus) String() string { return "request_focus" }
func (e ScrollTo) String() string   { return fmt.Sprintf("scroll_to(%.4f)", e.Offset) }
func (e Invoke[T]) String() string  { return fmt.Sprintf("invoke(%q)", e.Item.Title()) }
func (Terminate) String() string    { return "terminate" }

// Clamp01 limits a scroll offset to the [0, 1] range.
func Clamp01(offset float64) float64 {
	switch {
	case offset < 0:
		return 0
	case offset > 1:
		return 1
	default:
		return offset
	}
}
