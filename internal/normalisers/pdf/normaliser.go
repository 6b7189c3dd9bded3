// Package pdf extracts text from PDF documents.
//
// Scanned submissions without a text layer yield no text; the caller
// decides whether that is an error.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
)

// MIMEType is the MIME type handled by this normaliser.
const MIMEType = "application/pdf"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser
}

// Normalise extracts the plain text layer of every page.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (result *driven.NormaliseResult, err error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	// The pdf package panics on some malformed object streams.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("read pdf: %v: %w", r, domain.ErrInvalidInput)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %v: %w", err, domain.ErrInvalidInput)
	}

	var pages []string
	var warnings []string
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, pageErr))
			continue
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}

	title := reader.Trailer().Key("Info").Key("Title").Text()
	if title == "" {
		title = extractTitle(raw.Name)
	}

	result = &driven.NormaliseResult{
		Text:       strings.Join(pages, "\n\n"),
		Title:      title,
		Confidence: 0.8,
		Warnings:   warnings,
		Metadata:   copyMetadata(raw.Metadata),
	}
	if result.Metadata == nil {
		result.Metadata = make(map[string]any)
	}
	result.Metadata["format"] = "pdf"
	result.Metadata["pages"] = total

	return result, nil
}

// extractTitle extracts a human-readable title from a file name.
func extractTitle(name string) string {
	if name == "" {
		return ""
	}
	filename := filepath.Base(name)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
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
