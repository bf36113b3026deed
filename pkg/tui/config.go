package tui

import (
	"strings"

	"github.com/oakwood-commons/ilia/internal/config"
	"github.com/oakwood-commons/ilia/internal/ui"
)

// Config holds host-provided settings for running a selector popup.
type Config struct {
	AppName     string
	Placeholder string
	Width       int
	Rows        int
	// RowScale is the scroll offset contributed by each row.
	RowScale float64
	NoColor  bool
	Theme    config.ThemeConfig
	Keys     config.KeyConfig
}

// DefaultConfig returns a baseline config with the same defaults as the CLI.
func DefaultConfig() Config {
	cfg, err := config.Default()
	if err != nil {
		return Config{AppName: "ilia"}
	}
	return FromConfig(cfg, "")
}

// FromConfig builds a popup config from a loaded configuration file.
func FromConfig(cfg config.Config, placeholder string) Config {
	return Config{
		AppName:     "ilia",
		Placeholder: placeholder,
		Width:       cfg.UI.Width,
		Rows:        cfg.UI.Rows,
		RowScale:    cfg.UI.RowScale,
		Theme:       cfg.UI.Theme,
		Keys:        cfg.Keys,
	}
}

// FitTerminal shrinks the popup so it fits a termW x termH terminal. The
// box border and footer take four columns and five lines.
func (c Config) FitTerminal(termW, termH int) Config {
	if termW > 8 && c.Width > termW-4 {
		c.Width = termW - 4
	}
	if termH > 6 && c.Rows > termH-5 {
		c.Rows = termH - 5
	}
	return c
}

func (c Config) options() ui.Options {
	title := strings.TrimSpace(c.AppName)
	if title == "" {
		title = "ilia"
	}
	return ui.Options{
		Title:       title,
		Placeholder: c.Placeholder,
		Width:       c.Width,
		Rows:        c.Rows,
		RowScale:    c.RowScale,
		Keys:        ui.KeyBindingsFromConfig(c.Keys),
		Theme:       ui.ThemeFromConfig(c.Theme, c.NoColor),
	}
}
