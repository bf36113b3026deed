package ui

import (
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/ilia/internal/config"
)

// Theme holds the styles the popup renders with.
type Theme struct {
	Box      lipgloss.Style
	Prompt   lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Error    lipgloss.Style
}

// ThemeFromConfig builds styles from hex colors. With noColor only layout
// and emphasis are kept.
func ThemeFromConfig(cfg config.ThemeConfig, noColor bool) Theme {
	th := Theme{
		Box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Prompt:   lipgloss.NewStyle().Bold(true),
		Item:     lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Reverse(true),
		Dim:      lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Bold(true),
	}
	if noColor {
		return th
	}
	if cfg.Border != "" {
		th.Box = th.Box.BorderForeground(lipgloss.Color(cfg.Border))
	}
	if cfg.Prompt != "" {
		th.Prompt = th.Prompt.Foreground(lipgloss.Color(cfg.Prompt))
	}
	if cfg.Text != "" {
		th.Item = th.Item.Foreground(lipgloss.Color(cfg.Text))
	}
	if cfg.SelectedFG != "" || cfg.SelectedBG != "" {
		th.Selected = lipgloss.NewStyle().Bold(true)
		if cfg.SelectedFG != "" {
			th.Selected = th.Selected.Foreground(lipgloss.Color(cfg.SelectedFG))
		}
		if cfg.SelectedBG != "" {
			th.Selected = th.Selected.Background(lipgloss.Color(cfg.SelectedBG))
		}
	}
	if cfg.Dim != "" {
		th.Dim = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Dim))
	}
	if cfg.Error != "" {
		th.Error = th.Error.Foreground(lipgloss.Color(cfg.Error))
	}
	return th
}
