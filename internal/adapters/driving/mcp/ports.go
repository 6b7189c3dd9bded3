package mcp

import (
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis measures texts.
	Analysis driving.AnalysisService

	// Baseline manages author baselines.
	Baseline driving.BaselineService

	// Assignment runs batch assignment.
	Assignment driving.AssignmentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	// Baseline and Assignment are optional; their tools report ErrServiceUnavailable.
	return nil
}
