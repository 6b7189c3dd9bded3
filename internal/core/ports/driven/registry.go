package driven

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a document.
// It maintains a priority-ordered list of normalisers and dispatches
// on the declared or detected MIME type.
type NormaliserRegistry interface {
	// Normalise detects the format, extracts and cleans the text.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalizedDocument, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedMIMETypes returns all MIME types that can be normalised.
	SupportedMIMETypes() []string
}

// LanguageDetector guesses the language of a text.
type LanguageDetector interface {
	// Detect returns an ISO 639-1 code, or domain.LanguageUnknown.
	Detect(text string) string
}
