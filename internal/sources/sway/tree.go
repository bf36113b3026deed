// Package sway lists open windows from the sway layout tree.
package sway

import (
	"encoding/json"
	"fmt"
)

// Node types and layouts used by the window filter.
const (
	TypeCon         = "con"
	TypeFloatingCon = "floating_con"
	LayoutNone      = "none"
	barTitle        = "i3bar"
)

// Node is the subset of a get_tree node the launcher reads.
type Node struct {
	ID               int64             `json:"id"`
	Name             *string           `json:"name"`
	Type             string            `json:"type"`
	Layout           string            `json:"layout"`
	Focused          bool              `json:"focused"`
	AppID            *string           `json:"app_id"`
	PID              int               `json:"pid"`
	Shell            string            `json:"shell"`
	WindowProperties *WindowProperties `json:"window_properties"`
	Nodes            []Node            `json:"nodes"`
	FloatingNodes    []Node            `json:"floating_nodes"`
}

// WindowProperties is only present for X11 (Xwayland) windows.
type WindowProperties struct {
	Class      *string `json:"class"`
	Instance   *string `json:"instance"`
	Title      *string `json:"title"`
	WindowRole *string `json:"window_role"`
	WindowType *string `json:"window_type"`
}

// ParseTree decodes the JSON printed by `swaymsg -t get_tree -r`.
func ParseTree(data []byte) (Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return Node{}, fmt.Errorf("decode sway tree: %w", err)
	}
	return root, nil
}

// Windows returns every window in the tree in depth-first order, tiled
// children before floating ones.
func Windows(root Node) []Node {
	var out []Node
	var walk func(n Node)
	walk = func(n Node) {
		if isWindow(n) {
			out = append(out, n)
		}
		for _, c := range n.Nodes {
			walk(c)
		}
		for _, c := range n.FloatingNodes {
			walk(c)
		}
	}
	walk(root)
	return out
}

// isWindow keeps containers that hold a real client: X11 windows of a
// normal type that are not the bar, and Wayland views, which are leaf
// containers without a layout.
func isWindow(n Node) bool {
	if n.Type != TypeCon && n.Type != TypeFloatingCon {
		return false
	}
	leaf := n.Layout == LayoutNone
	props := n.WindowProperties
	if props == nil {
		return leaf
	}
	if props.WindowType == nil || props.Title == nil {
		return false
	}
	wt := *props.WindowType
	return (wt == "normal" || wt == "unknown" || leaf) && *props.Title != barTitle
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type commandReply struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// checkReply reports the first failed command in a run_command reply.
// Output that is not a JSON reply is accepted.
func checkReply(out []byte) error {
	var replies []commandReply
	if err := json.Unmarshal(out, &replies); err != nil {
		return nil
	}
	for _, r := range replies {
		if !r.Success {
			return fmt.Errorf("sway: %s", r.Error)
		}
	}
	return nil
}
