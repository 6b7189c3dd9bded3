package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/styles"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.Len(t, view.items, 4)
	assert.Equal(t, 0, view.selected)
	assert.Equal(t, 80, view.width)
	assert.Equal(t, 24, view.height)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Nil(t, view.Init())
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	assert.Equal(t, view, updated)
	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Update_Navigate(t *testing.T) {
	view := NewView(nil)

	view.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, view.Selected())

	view.Update(runes("j"))
	view.Update(runes("j"))
	view.Update(runes("j"))
	assert.Equal(t, 3, view.Selected(), "stops at the last item")

	view.Update(tea.KeyMsg{Type: tea.KeyUp})
	view.Update(runes("k"))
	view.Update(runes("k"))
	view.Update(runes("k"))
	assert.Equal(t, 0, view.Selected(), "stops at the first item")
}

func TestView_Update_Enter(t *testing.T) {
	tests := []struct {
		index    int
		expected messages.ViewType
	}{
		{0, messages.ViewBaselines},
		{1, messages.ViewBatch},
		{2, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			view := NewView(nil)
			view.selected = tt.index

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})

			require.NotNil(t, cmd)
			changed, ok := cmd().(messages.ViewChanged)
			require.True(t, ok)
			assert.Equal(t, tt.expected, changed.View)
		})
	}
}

func TestView_Update_HelpKey(t *testing.T) {
	view := NewView(nil)

	_, cmd := view.Update(runes("?"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHelp}, cmd())
}

func TestView_Update_Quit(t *testing.T) {
	view := NewView(nil)
	view.selected = 3

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	_, cmd = NewView(nil).Update(runes("q"))
	require.NotNil(t, cmd)
}

func TestView_View(t *testing.T) {
	view := NewView(nil)
	assert.Contains(t, view.View(), "Initialising")

	view.SetDimensions(80, 24)
	output := view.View()

	assert.Contains(t, output, "Penmark")
	assert.Contains(t, output, "Baselines")
	assert.Contains(t, output, "Batch")
	assert.Contains(t, output, "Quit")
	assert.Contains(t, output, ">")
}
