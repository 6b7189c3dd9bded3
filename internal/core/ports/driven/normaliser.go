package driven

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// Normaliser extracts text from raw documents of specific formats.
// Each normaliser handles specific MIME types (e.g., PDF, Markdown).
type Normaliser interface {
	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific normalisers should return 50-89.
	// Fallback normalisers should return 1-9.
	Priority() int

	// Normalise extracts the text of a raw document.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of text extraction.
// Cleaning and quality scoring are applied by the registry afterwards.
type NormaliseResult struct {
	// Text is the extracted text. Paragraphs should be separated by blank lines.
	Text string

	// Title is the document title when the format carries one.
	Title string

	// Confidence reflects how reliable the extraction is, in [0, 1].
	Confidence float64

	// Warnings lists non-fatal extraction problems.
	Warnings []string

	// Metadata contains format-specific key-value pairs.
	Metadata map[string]any
}
