// Package baselines provides the author baselines view for the TUI.
package baselines

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/penmark/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
)

// View lists author baselines and shows the aggregate of the selected one.
type View struct {
	ctx      context.Context
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	service  driving.BaselineService
	profiles []domain.BaselineProfile
	selected int
	expanded bool
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new baselines view.
func NewView(s *styles.Styles, service driving.BaselineService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		ctx:     context.Background(),
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
	}
}

// WithContext sets the context used for service calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view and loads baselines.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.BaselinesLoaded{Err: fmt.Errorf("baseline service not available")}
		}
		profiles, err := v.service.List(v.ctx)
		return messages.BaselinesLoaded{Profiles: profiles, Err: err}
	}
}

func (v *View) remove(authorID string) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.BaselineRemoved{AuthorID: authorID, Err: fmt.Errorf("baseline service not available")}
		}
		return messages.BaselineRemoved{AuthorID: authorID, Err: v.service.Delete(v.ctx, authorID)}
	}
}

// Update handles messages for the baselines view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg.String())

	case messages.BaselinesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.profiles = msg.Profiles
			if v.selected >= len(v.profiles) {
				v.selected = max(len(v.profiles)-1, 0)
			}
		}
		return v, nil

	case messages.BaselineRemoved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.expanded = false
		return v, v.load()
	}

	return v, nil
}

func (v *View) handleKey(k string) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keymap.Down):
		if v.selected < len(v.profiles)-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keymap.Select):
		v.expanded = !v.expanded && len(v.profiles) > 0
	case keymap.Matches(k, v.keymap.Delete):
		if v.selected < len(v.profiles) {
			return v, v.remove(v.profiles[v.selected].AuthorID)
		}
	case keymap.Matches(k, v.keymap.Reload):
		v.loading = true
		return v, v.load()
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the baselines view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Baselines"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading baselines..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.profiles) == 0:
		b.WriteString(v.styles.Muted.Render("No baselines yet. Build one with: penmark baseline build"))
	default:
		for i := range v.profiles {
			b.WriteString(v.renderProfile(i, &v.profiles[i]))
			b.WriteString("\n")
		}
		if v.expanded {
			b.WriteString("\n")
			b.WriteString(v.renderAggregate(&v.profiles[v.selected]))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] details  [d] delete  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderProfile(index int, p *domain.BaselineProfile) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	stats := fmt.Sprintf("%d/%d samples  confidence %.2f", p.ActiveSamples, len(p.Samples), p.Confidence)
	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-20s %s", indicator, p.AuthorID, stats))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-20s ", indicator, p.AuthorID)) + v.styles.Muted.Render(stats)
}

func (v *View) renderAggregate(p *domain.BaselineProfile) string {
	m := p.Aggregate
	lines := []string{
		v.styles.Subtitle.Render(p.AuthorID),
		fmt.Sprintf("  Diversity        %.3f", m.Vocabulary.Diversity),
		fmt.Sprintf("  Avg word length  %.2f", m.Vocabulary.AverageWordLength),
		fmt.Sprintf("  Sophistication   %.3f", m.Vocabulary.Sophistication),
		fmt.Sprintf("  Avg sentence     %.1f words", m.Style.AverageSentenceLength),
		fmt.Sprintf("  Grade level      %.1f", m.Readability.GradeLevel),
		fmt.Sprintf("  Updated          %s", p.LastUpdated.Format("2006-01-02 15:04")),
	}
	return v.styles.Border.Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Profiles returns the loaded baselines.
func (v *View) Profiles() []domain.BaselineProfile {
	return v.profiles
}

// SelectedIndex returns the currently selected baseline index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
