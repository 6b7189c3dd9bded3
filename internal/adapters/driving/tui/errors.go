package tui

import "errors"

// ErrMissingBaselineService is returned when the baseline service is not provided.
var ErrMissingBaselineService = errors.New("tui: baseline service is required")

// ErrMissingAssignmentService is returned when a batch is started without an assignment service.
var ErrMissingAssignmentService = errors.New("tui: assignment service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
