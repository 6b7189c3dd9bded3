package plaintext

import (
	"context"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
// It is also the fallback for content no other normaliser recognises.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"application/octet-stream",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes the content as UTF-8. Invalid byte sequences are
// dropped and reported as a warning; this never fails on non-nil input.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	result := &driven.NormaliseResult{
		Title:      extractTitleFromMetadataOrName(raw),
		Confidence: 1.0,
		Metadata:   copyMetadata(raw.Metadata),
	}

	if utf8.Valid(raw.Content) {
		result.Text = string(raw.Content)
	} else {
		result.Text = strings.ToValidUTF8(string(raw.Content), "")
		result.Confidence = 0.3
		result.Warnings = append(result.Warnings, "content is not valid UTF-8; invalid bytes were dropped")
	}

	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["format"] = "text"

	return result, nil
}

// extractTitleFromMetadataOrName checks metadata for title first, then falls back to the name.
func extractTitleFromMetadataOrName(raw *domain.RawDocument) string {
	if raw.Metadata != nil {
		if title, ok := raw.Metadata["title"].(string); ok && title != "" {
			return title
		}
	}
	return extractTitle(raw.Name)
}

// extractTitle extracts a human-readable title from a file name.
func extractTitle(name string) string {
	if name == "" {
		return ""
	}
	filename := filepath.Base(name)

	// Remove common extensions for cleaner title
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	// Replace underscores and dashes with spaces
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}

// copyMetadata creates a shallow copy of metadata.
func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
