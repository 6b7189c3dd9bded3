// Package mcp provides an MCP (Model Context Protocol) server adapter for penmark.
// It lets AI assistants measure essays, check them against an author's
// baseline and assign scanned batches to a class roster.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

// ErrServiceUnavailable is returned by tools whose service was not configured.
var ErrServiceUnavailable = errors.New("mcp: service not configured")
