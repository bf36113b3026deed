package sway

import (
	"context"
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/ilia/internal/cel"
	"github.com/oakwood-commons/ilia/internal/launcher"
	"github.com/oakwood-commons/ilia/pkg/logger"
)

// DefaultTitleWidth is the number of cells a window title is cut to.
const DefaultTitleWidth = 12

// Window is a focusable sway container.
type Window struct {
	ID       int64
	Name     string
	AppID    string
	Class    string
	Floating bool
	Focused  bool
	title    string

	swaymsg string
	runner  launcher.Runner
}

// Title implements selector.Item.
func (w Window) Title() string { return w.title }

// Invoke focuses the window.
func (w Window) Invoke(ctx context.Context) error {
	if w.runner == nil {
		return fmt.Errorf("window %d: no runner configured", w.ID)
	}
	out, err := w.runner.Output(ctx, launcher.Command{Argv: FocusCommand(w.swaymsg, w.ID)})
	if err != nil {
		return fmt.Errorf("focus window %d: %w", w.ID, err)
	}
	return checkReply(out)
}

// Attributes exposes the window to filter expressions.
func (w Window) Attributes() map[string]any {
	return map[string]any{
		"id":       w.ID,
		"title":    w.Name,
		"app_id":   w.AppID,
		"class":    w.Class,
		"floating": w.Floating,
		"focused":  w.Focused,
	}
}

// FocusCommand returns the swaymsg invocation that focuses container id.
func FocusCommand(swaymsg string, id int64) []string {
	return []string{swaymsg, fmt.Sprintf("[con_id=%d] focus", id)}
}

// Source loads windows by asking swaymsg for the layout tree.
type Source struct {
	Swaymsg    string
	TitleWidth int
	Filter     *cel.Predicate
	Runner     launcher.Runner
}

// NewSource returns a Source using the given swaymsg binary.
func NewSource(swaymsg string, titleWidth int, filter *cel.Predicate, runner launcher.Runner) *Source {
	if swaymsg == "" {
		swaymsg = "swaymsg"
	}
	if titleWidth <= 0 {
		titleWidth = DefaultTitleWidth
	}
	return &Source{Swaymsg: swaymsg, TitleWidth: titleWidth, Filter: filter, Runner: runner}
}

// Load implements selector.Source.
func (s *Source) Load(ctx context.Context) ([]Window, error) {
	out, err := s.Runner.Output(ctx, launcher.Command{Argv: []string{s.Swaymsg, "-t", "get_tree", "-r"}})
	if err != nil {
		return nil, fmt.Errorf("get sway tree: %w", err)
	}
	root, err := ParseTree(out)
	if err != nil {
		return nil, err
	}

	nodes := Windows(root)
	windows := make([]Window, 0, len(nodes))
	for _, n := range nodes {
		windows = append(windows, s.window(n))
	}
	logger.FromContext(ctx).V(1).Info("read sway tree", logger.SourceKey, "windows", "count", len(windows))
	return cel.Filter(s.Filter, windows)
}

func (s *Source) window(n Node) Window {
	name := deref(n.Name)
	if name == "" {
		name = deref(n.AppID)
	}
	w := Window{
		ID:       n.ID,
		Name:     name,
		AppID:    deref(n.AppID),
		Floating: n.Type == TypeFloatingCon,
		Focused:  n.Focused,
		title:    TruncateTitle(name, s.TitleWidth),
		swaymsg:  s.Swaymsg,
		runner:   s.Runner,
	}
	if n.WindowProperties != nil {
		w.Class = deref(n.WindowProperties.Class)
	}
	return w
}

// TruncateTitle cuts title to width cells followed by an ellipsis.
func TruncateTitle(title string, width int) string {
	if runewidth.StringWidth(title) <= width {
		return title
	}
	return runewidth.Truncate(title, width, "") + "…"
}
