package domain

// RawDocument represents opaque bytes submitted for analysis.
// It is immutable once ingested.
type RawDocument struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the original file name or upload label, if any.
	Name string

	// Format is an optional MIME-style hint (e.g., "application/pdf").
	// When empty the normaliser detects the format from the content.
	Format string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains producer-specific key-value pairs.
	Metadata map[string]any
}
