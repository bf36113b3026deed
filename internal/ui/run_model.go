package ui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/ilia/pkg/selector"
)

// Outcome summarises how a popup session ended.
type Outcome struct {
	// Invoked is true when an item action completed without error.
	Invoked bool
	// Phase is the selector phase at exit.
	Phase selector.Phase
}

// RunModel runs m until it quits. Extra ProgramOptions (custom IO, window
// size) are passed through to tea.NewProgram.
func RunModel[T selector.Item](m *Model[T], opts ...tea.ProgramOption) (Outcome, error) {
	prog := tea.NewProgram(m, opts...)
	final, err := prog.Run()
	out := Outcome{Invoked: m.Invoked(), Phase: m.State().Phase()}
	if fm, ok := final.(*Model[T]); ok && fm != nil {
		out = Outcome{Invoked: fm.Invoked(), Phase: fm.State().Phase()}
	}
	return out, err
}
