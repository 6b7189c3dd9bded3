// Package tui provides an interactive terminal user interface for penmark.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Baseline manages author baselines.
	Baseline driving.BaselineService

	// Assignment runs batch assignment. Optional unless a batch is started.
	Assignment driving.AssignmentService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(baseline driving.BaselineService, assignment driving.AssignmentService) *Ports {
	return &Ports{
		Baseline:   baseline,
		Assignment: assignment,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Baseline == nil {
		return ErrMissingBaselineService
	}
	return nil
}
