package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ilia/internal/config"
	"github.com/oakwood-commons/ilia/pkg/selector"
)

type testItem struct {
	title   string
	err     error
	invoked *[]string
}

func (i testItem) Title() string { return i.title }

func (i testItem) Invoke(context.Context) error {
	if i.invoked != nil {
		*i.invoked = append(*i.invoked, i.title)
	}
	return i.err
}

func staticSource(items ...testItem) selector.Source[testItem] {
	return selector.SourceFunc[testItem](func(context.Context) ([]testItem, error) {
		return items, nil
	})
}

func titledItems(n int) []testItem {
	out := make([]testItem, n)
	for i := range out {
		out[i] = testItem{title: fmt.Sprintf("item-%02d", i)}
	}
	return out
}

// loadedModel returns a model that already received its items.
func loadedModel(t *testing.T, opts Options, items ...testItem) *Model[testItem] {
	t.Helper()
	m := NewModel(context.Background(), staticSource(items...), opts)
	m.Update(loadedMsg[testItem]{items: items})
	require.Equal(t, selector.Ready, m.State().Phase())
	return m
}

func typeText(m *Model[testItem], s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel(context.Background(), staticSource(), Options{})
	assert.Equal(t, 40, m.opts.Width)
	assert.Equal(t, 8, m.opts.Rows)
	assert.Equal(t, DefaultKeyBindings, m.opts.Keys)
	assert.Equal(t, selector.DefaultRowScale, m.State().RowScale())
	assert.Equal(t, selector.Uninitialized, m.State().Phase())
}

func TestInitLoadsFromSource(t *testing.T) {
	m := NewModel(context.Background(), staticSource(testItem{title: "Alpha"}), Options{})
	require.NotNil(t, m.Init())

	msg := m.loadCmd()()
	loaded, ok := msg.(loadedMsg[testItem])
	require.True(t, ok, "got %T", msg)
	require.Len(t, loaded.items, 1)

	m.Update(loaded)
	assert.Equal(t, selector.Ready, m.State().Phase())
	assert.True(t, m.input.Focused(), "loading should focus the entry")
}

func TestLoadErrorKeepsPartialItems(t *testing.T) {
	m := NewModel(context.Background(), staticSource(), Options{})
	m.Update(loadedMsg[testItem]{items: []testItem{{title: "Files"}}, err: errors.New("bad dir")})
	assert.Equal(t, selector.Ready, m.State().Phase())
	assert.Len(t, m.State().Items(), 1)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.render(), "could not be loaded")
}

func TestTypingFilters(t *testing.T) {
	m := loadedModel(t, Options{}, testItem{title: "Alpha"}, testItem{title: "Bravo"}, testItem{title: "Charlie"})
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	require.Equal(t, 1, m.State().SelectedIndex())

	typeText(m, "BR")
	assert.Equal(t, "BR", m.State().EntryText())
	assert.Zero(t, m.State().SelectedIndex())
	assert.Equal(t, 1, m.State().FilteredCount())

	out := m.render()
	assert.Contains(t, out, "Bravo")
	assert.NotContains(t, out, "Alpha")
}

func TestTypingBeforeLoadIsIgnored(t *testing.T) {
	m := NewModel(context.Background(), staticSource(), Options{})
	typeText(m, "x")
	assert.Empty(t, m.State().EntryText())
	assert.Equal(t, selector.Uninitialized, m.State().Phase())
}

func TestNavigationKeys(t *testing.T) {
	m := loadedModel(t, Options{}, titledItems(3)...)

	m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Zero(t, m.State().SelectedIndex(), "up at top is a no-op")

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	assert.Equal(t, 2, m.State().SelectedIndex())

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 2, m.State().SelectedIndex(), "down at bottom is a no-op")

	m.Update(tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl})
	assert.Equal(t, 1, m.State().SelectedIndex())
}

func TestEnterInvokesHighlightedItemThenQuits(t *testing.T) {
	var invoked []string
	items := []testItem{{title: "Alpha", invoked: &invoked}, {title: "Bravo", invoked: &invoked}}
	m := loadedModel(t, Options{}, items...)
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.invoking)

	_, again := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, again, "enter while invoking is ignored")

	msg := cmd()
	res, ok := msg.(invokedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, []string{"Bravo"}, invoked)

	_, cmd = m.Update(res)
	assert.True(t, isQuit(t, cmd))
	assert.True(t, m.Invoked())
}

func TestInvokeFailureShowsStatus(t *testing.T) {
	m := loadedModel(t, Options{}, testItem{title: "broken", err: errors.New("exec: not found")})
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, next := m.Update(cmd())
	assert.Nil(t, next, "a failed invocation keeps the popup open")
	assert.False(t, m.Invoked())
	assert.False(t, m.invoking)
	assert.Equal(t, selector.Ready, m.State().Phase())
	assert.Contains(t, m.render(), "exec: not found")

	typeText(m, "b")
	assert.Empty(t, m.status, "typing clears the status line")
}

func TestEnterOnEmptyViewDoesNothing(t *testing.T) {
	m := loadedModel(t, Options{}, testItem{title: "Alpha"})
	typeText(m, "zz")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.render(), "no matches")
}

func TestCancelKeysQuit(t *testing.T) {
	for _, key := range []tea.KeyPressMsg{
		{Code: tea.KeyEscape},
		{Code: 'c', Mod: tea.ModCtrl},
	} {
		t.Run(key.String(), func(t *testing.T) {
			m := NewModel(context.Background(), staticSource(), Options{})
			_, cmd := m.Update(key)
			assert.True(t, isQuit(t, cmd))
			assert.Equal(t, selector.Terminated, m.State().Phase())
		})
	}
}

func TestFocusLossQuitsOnlyAfterFocus(t *testing.T) {
	m := loadedModel(t, Options{}, testItem{title: "Alpha"})

	_, cmd := m.Update(tea.BlurMsg{})
	assert.False(t, isQuit(t, cmd), "blur before any focus is ignored")
	assert.Equal(t, selector.Ready, m.State().Phase())

	m.Update(tea.FocusMsg{})
	_, cmd = m.Update(tea.BlurMsg{})
	assert.True(t, isQuit(t, cmd))
	assert.Equal(t, selector.Terminated, m.State().Phase())
}

func TestCustomKeyBindings(t *testing.T) {
	keys := KeyBindingsFromConfig(config.KeyConfig{Cancel: []string{"q"}, Down: []string{"tab"}})
	m := loadedModel(t, Options{Keys: keys}, titledItems(2)...)

	m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, 1, m.State().SelectedIndex())

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	assert.True(t, isQuit(t, cmd))
}

func TestScrollFollowsSelection(t *testing.T) {
	m := loadedModel(t, Options{Rows: 5}, titledItems(20)...)
	for i := 0; i < 7; i++ {
		m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	require.Equal(t, 7, m.State().SelectedIndex())
	assert.Equal(t, 3, m.top)

	out := m.render()
	assert.Contains(t, out, "item-07")
	assert.Contains(t, out, "item-03")
	assert.NotContains(t, out, "item-02")
	assert.NotContains(t, out, "item-08")
	assert.Contains(t, out, "8/20")

	typeText(m, "item")
	assert.Zero(t, m.top, "filter change scrolls back to the top")
}

func TestScrollToUsesRowScale(t *testing.T) {
	m := loadedModel(t, Options{Rows: 4, RowScale: 0.1}, titledItems(14)...)
	for i := 0; i < 5; i++ {
		m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	// offset 0.5 over 10 overflow rows
	assert.Equal(t, 5, m.top)
}

func TestFollowSelection(t *testing.T) {
	tests := []struct {
		name                       string
		top, selected, total, rows int
		want                       int
	}{
		{"fits", 3, 2, 4, 5, 0},
		{"above", 5, 2, 20, 5, 2},
		{"below", 0, 9, 20, 5, 5},
		{"inside", 4, 6, 20, 5, 4},
		{"past_end", 18, 19, 20, 5, 15},
		{"no_rows", 3, 1, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, followSelection(tt.top, tt.selected, tt.total, tt.rows))
		})
	}
}

func TestRenderLoading(t *testing.T) {
	m := NewModel(context.Background(), staticSource(), Options{Placeholder: "drun"})
	out := m.render()
	assert.Contains(t, out, "loading")
	assert.Contains(t, out, promptMark)
}

func TestRenderTruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 60)
	m := loadedModel(t, Options{Width: 10}, testItem{title: long})
	out := m.render()
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "xxxxxxxxx…")
}

func TestViewSettings(t *testing.T) {
	m := NewModel(context.Background(), staticSource(), Options{Title: "ilia drun"})
	v := m.View()
	assert.True(t, v.AltScreen)
	assert.True(t, v.ReportFocus)
	assert.Equal(t, "ilia drun", v.WindowTitle)
}

func TestThemeFromConfig(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	th := ThemeFromConfig(cfg.UI.Theme, false)
	assert.NotNil(t, th.Selected.GetBackground())

	plain := ThemeFromConfig(cfg.UI.Theme, true)
	assert.True(t, plain.Selected.GetReverse())
}
