package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/ilia/pkg/selector"
)

const promptMark = "› "

// View implements tea.Model.
func (m *Model[T]) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	v.WindowTitle = m.opts.Title
	return v
}

// render draws the popup: entry line, visible rows and a footer line.
func (m *Model[T]) render() string {
	inner := m.opts.Width
	th := m.opts.Theme

	lines := make([]string, 0, m.opts.Rows+2)
	lines = append(lines, th.Prompt.Render(promptMark)+m.input.View())

	switch m.state.Phase() {
	case selector.Uninitialized:
		lines = append(lines, m.spinner.View()+" "+th.Dim.Render("loading"))
		lines = padRows(lines, m.opts.Rows+1)
	default:
		lines = append(lines, m.renderRows(inner)...)
		lines = padRows(lines, m.opts.Rows+1)
	}

	lines = append(lines, m.renderFooter(inner))
	return th.Box.Width(inner + 4).Render(strings.Join(lines, "\n"))
}

func (m *Model[T]) renderRows(width int) []string {
	th := m.opts.Theme
	total := m.state.FilteredCount()
	if total == 0 {
		return []string{th.Dim.Render("no matches")}
	}

	selected := m.state.SelectedIndex()
	end := m.top + m.opts.Rows
	rows := make([]string, 0, m.opts.Rows)
	pos := 0
	for _, it := range m.state.Filtered() {
		if pos >= end {
			break
		}
		if pos >= m.top {
			title := fitWidth(it.Title(), width)
			if pos == selected {
				rows = append(rows, th.Selected.Render(title))
			} else {
				rows = append(rows, th.Item.Render(title))
			}
		}
		pos++
	}
	return rows
}

func (m *Model[T]) renderFooter(width int) string {
	th := m.opts.Theme
	if m.status != "" {
		style := th.Dim
		if m.statusErr {
			style = th.Error
		}
		return style.Render(runewidth.Truncate(m.status, width, "…"))
	}
	if m.state.Phase() == selector.Uninitialized {
		return ""
	}
	total := m.state.FilteredCount()
	if total == 0 {
		return th.Dim.Render(fmt.Sprintf("0/%d", len(m.state.Items())))
	}
	return th.Dim.Render(fmt.Sprintf("%d/%d", m.state.SelectedIndex()+1, total))
}

// fitWidth truncates s to width cells and pads it so a highlighted row
// spans the whole popup.
func fitWidth(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func padRows(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
