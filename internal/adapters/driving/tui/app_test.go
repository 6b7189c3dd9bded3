package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/penmark/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(NewPorts(
		&MockBaselineService{Profiles: []domain.BaselineProfile{{AuthorID: "alice", ActiveSamples: 3}}},
		&MockAssignmentService{},
	))
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

// pump runs cmd and feeds resulting messages back into the app until none remain.
func pump(app *App, cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				pump(app, c)
			}
			return
		}
		_, cmd = app.Update(msg)
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(NewPorts(&MockBaselineService{}, nil))

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingBaselineService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, err := NewApp(NewPorts(&MockBaselineService{}, nil))
	require.NoError(t, err)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Penmark")
}

func TestApp_NavigateToBaselines(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pump(app, cmd)

	assert.Equal(t, messages.ViewBaselines, app.CurrentView())
	output := app.View()
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "1 baselines")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	pump(app, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_BaselinesError(t *testing.T) {
	app, err := NewApp(NewPorts(&MockBaselineService{Err: errors.New("store down")}, nil))
	require.NoError(t, err)
	app.SetDimensions(100, 30)

	pump(app, func() tea.Msg { return messages.ViewChanged{View: messages.ViewBaselines} })

	assert.EqualError(t, app.Err(), "store down")
	assert.Contains(t, app.View(), "store down")
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	output := app.View()
	assert.Contains(t, output, "Help")
	assert.Contains(t, output, "cancel batch")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	pump(app, cmd)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_WithBatch(t *testing.T) {
	app := newTestApp(t)
	docs := []domain.RawDocument{{ID: "d1"}, {ID: "d2"}}

	_, err := app.WithBatch("7B", docs, domain.AssignOptions{})
	require.NoError(t, err)
	assert.Equal(t, messages.ViewBatch, app.CurrentView())

	pump(app, app.pending)

	require.NotNil(t, app.BatchResult())
	assert.Equal(t, 2, app.BatchResult().Summary.Assigned)
	output := app.View()
	assert.Contains(t, output, "Batch for class 7B")
	assert.Contains(t, output, "Done: 2 documents")
}

func TestApp_WithBatch_NoAssignmentService(t *testing.T) {
	app, err := NewApp(NewPorts(&MockBaselineService{}, nil))
	require.NoError(t, err)

	_, err = app.WithBatch("7B", nil, domain.AssignOptions{})

	assert.ErrorIs(t, err, ErrMissingAssignmentService)
}

func TestApp_BatchError(t *testing.T) {
	app, err := NewApp(NewPorts(&MockBaselineService{}, &MockAssignmentService{Err: domain.ErrBatchTooLarge}))
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	_, err = app.WithBatch("7B", []domain.RawDocument{{ID: "d1"}}, domain.AssignOptions{})
	require.NoError(t, err)

	pump(app, app.pending)

	assert.ErrorIs(t, app.Err(), domain.ErrBatchTooLarge)
	assert.Contains(t, app.View(), "Error")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Contains(t, app.View(), "boom")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})
	require.NotNil(t, cmd)

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}
