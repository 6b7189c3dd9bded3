// Package batch provides the assignment batch progress view for the TUI.
package batch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
)

// ErrNoService is returned when a batch is started without an assignment service.
var ErrNoService = errors.New("assignment service not available")

// View runs one assignment batch and shows its progress.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.AssignmentService
	bar     progress.Model

	classID   string
	events    chan tea.Msg
	cancel    context.CancelFunc
	running   bool
	completed int
	total     int
	log       []domain.BatchProgress
	result    *domain.AssignmentResult
	err       error
	width     int
	height    int
}

// NewView creates a new batch view.
func NewView(s *styles.Styles, service driving.AssignmentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	theme := s.Theme()
	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		bar:     progress.New(progress.WithGradient(string(theme.Secondary), string(theme.Primary))),
		width:   80,
		height:  24,
	}
}

// Init implements the view lifecycle. A batch only starts through Start.
func (v *View) Init() tea.Cmd {
	return nil
}

// Start runs a batch for the class in the background and returns the
// command that delivers its progress messages.
func (v *View) Start(ctx context.Context, classID string, docs []domain.RawDocument, opts domain.AssignOptions) tea.Cmd {
	if v.service == nil {
		return func() tea.Msg { return messages.BatchCompleted{Err: ErrNoService} }
	}
	if v.running {
		return nil
	}

	ctx, v.cancel = context.WithCancel(ctx)
	v.classID = classID
	v.running = true
	v.completed, v.total = 0, len(docs)
	v.log, v.result, v.err = nil, nil, nil

	// Every document reports once, plus the completion message.
	events := make(chan tea.Msg, len(docs)+1)
	v.events = events

	userProgress := opts.OnProgress
	opts.OnProgress = func(p domain.BatchProgress) {
		if userProgress != nil {
			userProgress(p)
		}
		events <- messages.BatchProgressed{Progress: p}
	}

	go func() {
		defer close(events)
		result, err := v.service.AssignClass(ctx, classID, docs, opts)
		events <- messages.BatchCompleted{Result: result, Err: err}
	}()

	return v.listen()
}

// listen waits for the next batch event.
func (v *View) listen() tea.Cmd {
	events := v.events
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

// Cancel stops the running batch. Finished documents keep their outcome.
func (v *View) Cancel() {
	if v.cancel != nil {
		v.cancel()
	}
}

// Update handles messages for the batch view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Cancel):
			v.Cancel()
		case keymap.Matches(k, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		return v, nil

	case messages.BatchProgressed:
		v.completed = msg.Progress.Completed
		v.total = msg.Progress.Total
		v.log = append(v.log, msg.Progress)
		return v, v.listen()

	case messages.BatchCompleted:
		v.running = false
		v.result = msg.Result
		v.err = msg.Err
		if v.cancel != nil {
			v.cancel()
		}
		return v, nil
	}

	return v, nil
}

// View renders the batch view.
func (v *View) View() string {
	var b strings.Builder

	title := "Batch"
	if v.classID != "" {
		title = fmt.Sprintf("Batch for class %s", v.classID)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if !v.running && v.result == nil && v.err == nil {
		b.WriteString(v.styles.Muted.Render("No batch running. Start one with: penmark assign --class ID FILES..."))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] back"))
		return b.String()
	}

	b.WriteString(v.bar.ViewAs(v.Percent()))
	b.WriteString(fmt.Sprintf("  %d/%d\n\n", v.completed, v.total))

	for _, p := range v.visibleLog() {
		b.WriteString(v.styles.Outcome(p.Status).Render(fmt.Sprintf("  %-10s %s", p.Status, p.DocumentID)))
		b.WriteString("\n")
	}

	if v.result != nil {
		s := v.result.Summary
		b.WriteString("\n")
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf(
			"Assigned %d of %d (failed %d, cancelled %d), average confidence %.2f",
			s.Assigned, s.Total, s.Failed, s.Cancelled, s.AverageConfidence,
		)))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.running {
		b.WriteString(v.styles.Help.Render("[c] cancel batch  [esc] back"))
	} else {
		b.WriteString(v.styles.Help.Render("[esc] back  [q] quit"))
	}
	return b.String()
}

// visibleLog returns the newest log entries that fit the terminal.
func (v *View) visibleLog() []domain.BatchProgress {
	room := v.height - 10
	if room < 3 {
		room = 3
	}
	if len(v.log) <= room {
		return v.log
	}
	return v.log[len(v.log)-room:]
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.bar.Width = max(width-20, 10)
}

// Percent returns the fraction of documents finished.
func (v *View) Percent() float64 {
	if v.total == 0 {
		return 0
	}
	return float64(v.completed) / float64(v.total)
}

// Running reports whether a batch is in flight.
func (v *View) Running() bool {
	return v.running
}

// Result returns the finished batch result, if any.
func (v *View) Result() *domain.AssignmentResult {
	return v.result
}

// Err returns the error the batch finished with.
func (v *View) Err() error {
	return v.err
}

// Progress returns the finished and total document counts.
func (v *View) Progress() (completed, total int) {
	return v.completed, v.total
}
