// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/penmark/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewBaselines lists author baselines.
	ViewBaselines
	// ViewBatch shows the progress and outcome of an assignment batch.
	ViewBatch
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewBaselines:
		return "baselines"
	case ViewBatch:
		return "batch"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// BaselinesLoaded carries the list of baselines from the service.
type BaselinesLoaded struct {
	Profiles []domain.BaselineProfile
	Err      error
}

// BaselineRemoved signals a baseline was deleted.
type BaselineRemoved struct {
	AuthorID string
	Err      error
}

// BatchProgressed reports one finished document of a running batch.
type BatchProgressed struct {
	Progress domain.BatchProgress
}

// BatchCompleted carries the result of a finished batch.
// Result may be set together with Err when the batch was cancelled.
type BatchCompleted struct {
	Result *domain.AssignmentResult
	Err    error
}
