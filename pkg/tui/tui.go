// Package tui runs a selector popup over any item source. Host applications
// provide a selector.Source and receive how the session ended.
package tui

import (
	"context"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/ilia/internal/ui"
	"github.com/oakwood-commons/ilia/pkg/selector"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// Outcome reports how a popup session ended.
type Outcome = ui.Outcome

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 24
}

// IsTerminal reports whether both stdin and stdout are attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// NewModel returns the popup model for src without running it.
func NewModel[T selector.Item](ctx context.Context, src selector.Source[T], cfg Config) *ui.Model[T] {
	return ui.NewModel(ctx, src, cfg.options())
}

// Run shows the popup until an item is invoked or the session is cancelled.
// The popup is shrunk to the detected terminal size. Host applications can
// pass tea.ProgramOption values to control IO.
func Run[T selector.Item](ctx context.Context, src selector.Source[T], cfg Config, opts ...tea.ProgramOption) (Outcome, error) {
	cfg = cfg.FitTerminal(DetectTerminalSize())
	return ui.RunModel(NewModel(ctx, src, cfg), opts...)
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
