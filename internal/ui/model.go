package ui

import (
	"context"
	"math"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/ilia/pkg/logger"
	"github.com/oakwood-commons/ilia/pkg/selector"
)

// Options configures a Model.
type Options struct {
	// Title is shown as the terminal window title.
	Title string
	// Placeholder is the entry hint shown while the filter is empty.
	Placeholder string
	Width       int
	Rows        int
	RowScale    float64
	Keys        KeyBindings
	Theme       Theme
}

// loadedMsg carries the result of the item source.
type loadedMsg[T selector.Item] struct {
	items []T
	err   error
}

// invokedMsg reports that an item action finished.
type invokedMsg struct {
	title string
	err   error
}

// Model drives a selector.State from bubbletea messages. It owns the state
// and turns effects into commands.
type Model[T selector.Item] struct {
	ctx    context.Context
	lgr    logr.Logger
	source selector.Source[T]

	state   selector.State[T]
	input   textinput.Model
	spinner spinner.Model

	opts Options
	// top is the first filtered row drawn.
	top int

	status    string
	statusErr bool
	invoking  bool
	invoked   bool
}

// NewModel creates a model that loads its items from src on Init.
func NewModel[T selector.Item](ctx context.Context, src selector.Source[T], opts Options) *Model[T] {
	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.Rows <= 0 {
		opts.Rows = 8
	}
	if opts.Keys == nil {
		opts.Keys = DefaultKeyBindings
	}

	ti := textinput.New()
	ti.Placeholder = opts.Placeholder
	ti.CharLimit = 256
	ti.SetWidth(opts.Width)
	ti.Prompt = ""

	s := spinner.New()
	s.Spinner = spinner.Dot

	return &Model[T]{
		ctx:     ctx,
		lgr:     *logger.FromContext(ctx),
		source:  src,
		state:   selector.New[T](selector.WithRowScale(opts.RowScale)),
		input:   ti,
		spinner: s,
		opts:    opts,
	}
}

// State returns the current selector state.
func (m *Model[T]) State() selector.State[T] {
	return m.state
}

// Invoked reports whether an item action completed successfully.
func (m *Model[T]) Invoked() bool {
	return m.invoked
}

// Init starts loading items and animates the spinner until they arrive.
func (m *Model[T]) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spinner.Tick)
}

func (m *Model[T]) loadCmd() tea.Cmd {
	ctx, src := m.ctx, m.source
	return func() tea.Msg {
		items, err := src.Load(ctx)
		return loadedMsg[T]{items: items, err: err}
	}
}

func invokeCmd[T selector.Item](ctx context.Context, it T) tea.Cmd {
	return func() tea.Msg {
		return invokedMsg{title: it.Title(), err: it.Invoke(ctx)}
	}
}

// Update implements tea.Model.
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg[T]:
		if msg.err != nil {
			// A failing source still lists whatever it managed to read.
			m.lgr.Error(msg.err, "loading items", "count", len(msg.items))
			m.setStatus("some items could not be loaded", true)
		}
		m.lgr.V(1).Info("items loaded", "count", len(msg.items))
		return m, m.apply(selector.Load[T]{Items: msg.items})

	case invokedMsg:
		m.invoking = false
		if msg.err != nil {
			m.lgr.Error(msg.err, "invoking item", logger.ItemKey, msg.title)
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.lgr.Info("invoked item", logger.ItemKey, msg.title)
		m.invoked = true
		return m, tea.Quit

	case tea.FocusMsg:
		return m, m.apply(selector.FocusGained{})

	case tea.BlurMsg:
		return m, m.apply(selector.FocusLost{})

	case spinner.TickMsg:
		if m.state.Phase() != selector.Uninitialized {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model[T]) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.opts.Keys.Lookup(msg.String()) {
	case ActionCancel:
		return m.apply(selector.CancelRequested{})
	case ActionUp:
		return m.apply(selector.Up)
	case ActionDown:
		return m.apply(selector.Down)
	case ActionExecute:
		if m.invoking {
			return nil
		}
		return m.apply(selector.ExecuteSelected{})
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.setStatus("", false)
		return tea.Batch(cmd, m.apply(selector.UpdateFilterText{Text: after}))
	}
	return cmd
}

// apply runs one transition and converts its effect into a command.
func (m *Model[T]) apply(in selector.Intent) tea.Cmd {
	next, eff := m.state.Apply(in)
	m.state = next
	if _, ok := in.(selector.UpdateFilterText); ok {
		m.top = 0
	}

	var cmd tea.Cmd
	switch eff := eff.(type) {
	case nil:
	case selector.RequestFocus:
		cmd = m.input.Focus()
	case selector.ScrollTo:
		m.scrollTo(eff.Offset)
	case selector.Invoke[T]:
		m.invoking = true
		m.lgr.V(1).Info("invoking", logger.ItemKey, eff.Item.Title())
		cmd = invokeCmd(m.ctx, eff.Item)
	case selector.Terminate:
		m.lgr.V(1).Info("terminating", "intent", intentName(in))
		cmd = tea.Quit
	}
	m.top = followSelection(m.top, m.state.SelectedIndex(), m.state.FilteredCount(), m.opts.Rows)
	return cmd
}

// scrollTo maps a relative offset onto the first visible row.
func (m *Model[T]) scrollTo(offset float64) {
	overflow := m.state.FilteredCount() - m.opts.Rows
	if overflow <= 0 {
		m.top = 0
		return
	}
	m.top = int(math.Round(selector.Clamp01(offset) * float64(overflow)))
}

func (m *Model[T]) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// followSelection returns a top row that keeps selected within
// [top, top+rows) and does not scroll past the end of the list.
func followSelection(top, selected, total, rows int) int {
	if rows <= 0 || total <= rows {
		return 0
	}
	if selected < top {
		top = selected
	}
	if selected >= top+rows {
		top = selected - rows + 1
	}
	return max(0, min(top, total-rows))
}

func intentName(in selector.Intent) string {
	switch in.(type) {
	case selector.CancelRequested:
		return "cancel"
	case selector.FocusLost:
		return "focus_lost"
	default:
		return "other"
	}
}
