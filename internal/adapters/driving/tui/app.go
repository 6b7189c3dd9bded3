package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/views/baselines"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/views/batch"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/penmark/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView      *menu.View
	baselinesView *baselines.View
	batchView     *batch.View
	statusBar     *status.Bar

	// pending starts a batch on Init when the app was opened for one.
	pending tea.Cmd

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		keymap:        km,
		menuView:      menu.NewView(s),
		baselinesView: baselines.NewView(s, ports.Baseline),
		batchView:     batch.NewView(s, ports.Assignment),
		statusBar:     status.NewBar(s, km),
		currentView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.baselinesView.WithContext(ctx)
	return a
}

// WithBatch opens the app on the batch view and runs the batch once started.
func (a *App) WithBatch(classID string, docs []domain.RawDocument, opts domain.AssignOptions) (*App, error) {
	if a.ports.Assignment == nil {
		return nil, ErrMissingAssignmentService
	}
	a.currentView = messages.ViewBatch
	a.statusBar.SetState(status.StateRunning)
	a.statusBar.SetProgress(0, len(docs))
	a.pending = func() tea.Msg {
		return startBatch{classID: classID, docs: docs, opts: opts}
	}
	return a, nil
}

// startBatch asks the app to launch the pending batch.
type startBatch struct {
	classID string
	docs    []domain.RawDocument
	opts    domain.AssignOptions
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("penmark"),
		a.pending,
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.batchView.Cancel()
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case startBatch:
		return a, a.batchView.Start(a.ctx, msg.classID, msg.docs, msg.opts)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.statusBar.Clear()
		switch msg.View {
		case messages.ViewBaselines:
			a.statusBar.SetState(status.StateLoading)
			return a, a.baselinesView.Init()
		case messages.ViewHelp:
			a.statusBar.SetState(status.StateHelp)
		case messages.ViewBatch:
			a.syncBatchStatus()
		case messages.ViewMenu:
		}
		return a, nil

	case messages.BaselinesLoaded:
		a.baselinesView, cmd = a.baselinesView.Update(msg)
		a.err = msg.Err
		if msg.Err != nil {
			a.statusBar.SetState(status.StateError)
			a.statusBar.SetMessage(msg.Err.Error())
		} else if a.currentView == messages.ViewBaselines {
			a.statusBar.SetState(status.StateReady)
			a.statusBar.SetMessage(fmt.Sprintf("%d baselines", len(msg.Profiles)))
		}
		return a, cmd

	case messages.BaselineRemoved:
		a.baselinesView, cmd = a.baselinesView.Update(msg)
		return a, cmd

	case messages.BatchProgressed, messages.BatchCompleted:
		a.batchView, cmd = a.batchView.Update(msg)
		if done, ok := msg.(messages.BatchCompleted); ok {
			a.err = done.Err
		}
		if a.currentView == messages.ViewBatch {
			a.syncBatchStatus()
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil

	case messages.Quit:
		a.batchView.Cancel()
		return a, tea.Quit
	}

	return a, nil
}

// handleKey forwards a key press to the active view.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewBaselines:
		a.baselinesView, cmd = a.baselinesView.Update(msg)
	case messages.ViewBatch:
		if !a.batchView.Running() && keymap.Matches(msg.String(), a.keymap.Quit) {
			return tea.Quit
		}
		a.batchView, cmd = a.batchView.Update(msg)
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keymap.Back) {
			return func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		}
	}
	return cmd
}

// syncBatchStatus mirrors batch progress into the status bar.
func (a *App) syncBatchStatus() {
	completed, total := a.batchView.Progress()
	a.statusBar.SetProgress(completed, total)
	switch {
	case a.batchView.Running():
		a.statusBar.SetState(status.StateRunning)
	case a.batchView.Err() != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(a.batchView.Err().Error())
	case a.batchView.Result() != nil:
		a.statusBar.SetState(status.StateDone)
	default:
		a.statusBar.SetState(status.StateReady)
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewBaselines:
		body = a.baselinesView.View()
	case messages.ViewBatch:
		body = a.batchView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	gap := a.height - strings.Count(body, "\n") - 2
	if gap < 1 {
		gap = 1
	}
	return body + strings.Repeat("\n", gap) + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// BatchResult returns the result of the batch run by the app, if any.
func (a *App) BatchResult() *domain.AssignmentResult {
	return a.batchView.Result()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.baselinesView.SetDimensions(width, height)
	a.batchView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
