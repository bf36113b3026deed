package ui

import (
	"strings"

	"github.com/oakwood-commons/ilia/internal/config"
)

// Action is what a bound key does in the popup.
type Action string

const (
	ActionNone    Action = ""
	ActionCancel  Action = "cancel"
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionExecute Action = "execute"
)

// KeyBindings maps key names, as produced by tea.KeyPressMsg.String, to
// actions. Keys not in the map go to the text entry.
type KeyBindings map[string]Action

// DefaultKeyBindings is used when no configuration is supplied.
var DefaultKeyBindings = KeyBindings{
	"esc":    ActionCancel,
	"ctrl+c": ActionCancel,
	"up":     ActionUp,
	"ctrl+p": ActionUp,
	"down":   ActionDown,
	"ctrl+n": ActionDown,
	"enter":  ActionExecute,
}

// KeyBindingsFromConfig builds bindings from configured key lists. A key
// listed under several actions keeps the last one in cancel, up, down,
// execute order. An empty config yields DefaultKeyBindings.
func KeyBindingsFromConfig(cfg config.KeyConfig) KeyBindings {
	kb := KeyBindings{}
	bind := func(keys []string, a Action) {
		for _, k := range keys {
			if k = strings.TrimSpace(k); k != "" {
				kb[k] = a
			}
		}
	}
	bind(cfg.Cancel, ActionCancel)
	bind(cfg.Up, ActionUp)
	bind(cfg.Down, ActionDown)
	bind(cfg.Execute, ActionExecute)
	if len(kb) == 0 {
		return DefaultKeyBindings
	}
	return kb
}

// Lookup returns the action bound to key.
func (kb KeyBindings) Lookup(key string) Action {
	return kb[key]
}
