package selector

// Intent is a request to change the selector state. The set is closed.
type Intent interface {
	isIntent()
}

// Load delivers the item collection once the source has finished.
type Load[T Item] struct {
	Items []T
}

// UpdateFilterText replaces the filter text.
type UpdateFilterText struct {
	Text string
}

// Navigate moves the selection by Delta rows within the filtered view.
type Navigate struct {
	Delta int
}

// ExecuteSelected asks for the highlighted item to be invoked.
type ExecuteSelected struct{}

// FocusGained reports that the popup received input focus.
type FocusGained struct{}

// FocusLost reports that the popup lost input focus.
type FocusLost struct{}

// CancelRequested asks for the popup to close.
type CancelRequested struct{}

func (Load[T]) isIntent()          {}
func (UpdateFilterText) isIntent() {}
func (Navigate) isIntent()         {}
func (ExecuteSelected) isIntent()  {}
func (FocusGained) isIntent()      {}
func (FocusLost) isIntent()        {}
func (CancelRequested) isIntent()  {}

// Up and Down are the two navigation intents produced by arrow keys.
var (
	Up   = Navigate{Delta: -1}
	Down = Navigate{Delta: 1}
)
