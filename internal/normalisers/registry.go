package normalisers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/logger"
	"github.com/custodia-labs/penmark/internal/normalisers/docx"
	"github.com/custodia-labs/penmark/internal/normalisers/eml"
	"github.com/custodia-labs/penmark/internal/normalisers/html"
	"github.com/custodia-labs/penmark/internal/normalisers/markdown"
	"github.com/custodia-labs/penmark/internal/normalisers/pdf"
	"github.com/custodia-labs/penmark/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry dispatches documents to normalisers by MIME type and cleans
// the extracted text. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[string][]driven.Normaliser
	detector    driven.LanguageDetector
}

// NewRegistry creates an empty registry. detector may be nil.
func NewRegistry(detector driven.LanguageDetector) *Registry {
	return &Registry{
		normalisers: make(map[string][]driven.Normaliser),
		detector:    detector,
	}
}

// Default creates a registry with every built-in normaliser registered.
func Default(detector driven.LanguageDetector) *Registry {
	r := NewRegistry(detector)
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	r.Register(eml.New())
	return r
}

// Register adds a normaliser for each MIME type it supports. Normalisers
// for the same type are kept in descending priority order.
func (r *Registry) Register(normaliser driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mimeType := range normaliser.SupportedMIMETypes() {
		list := append(r.normalisers[mimeType], normaliser)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.normalisers[mimeType] = list
	}
}

// SupportedMIMETypes returns all registered MIME types, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.normalisers))
	for mimeType := range r.normalisers {
		types = append(types, mimeType)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if list := r.normalisers[mimeType]; len(list) > 0 {
		return list[0]
	}
	return nil
}

// Normalise extracts, cleans and describes a document.
//
// With a declared format, an unknown format or a failed extraction is a
// *domain.NormalizationError, as is a binary payload that yields no text.
// Without one, the format is detected and anything unreadable is decoded
// as plain text with a warning instead.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.NormalizedDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		result   *driven.NormaliseResult
		mimeType string
		warnings []string
		err      error
	)

	if raw.Format != "" {
		mimeType = ResolveFormat(raw.Format)
		result, err = r.extractDeclared(ctx, raw, mimeType)
		if err != nil {
			return nil, err
		}
	} else {
		var recognised bool
		mimeType, recognised = Detect(raw.Content, raw.Name)
		logger.Debug("normalise %s: detected %s", raw.ID, mimeType)
		if !recognised {
			warnings = append(warnings, "unrecognised binary content; decoded as plain text")
		}
		result, warnings = r.extractDetected(ctx, raw, mimeType, warnings)
	}

	text := Clean(result.Text)
	warnings = append(warnings, result.Warnings...)
	confidence := result.Confidence
	if text == "" {
		confidence = 0
	}

	return &domain.NormalizedDocument{
		DocumentID: raw.ID,
		Text:       text,
		Format:     FormatName(mimeType),
		Metadata:   describe(text, result.Title, r.detector),
		Confidence: confidence,
		Warnings:   warnings,
	}, nil
}

func (r *Registry) extractDeclared(ctx context.Context, raw *domain.RawDocument, mimeType string) (*driven.NormaliseResult, error) {
	normaliser := r.lookup(mimeType)
	if normaliser == nil {
		return nil, &domain.NormalizationError{
			Format: raw.Format,
			Reason: "unsupported format",
			Err:    domain.ErrUnsupportedType,
		}
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, &domain.NormalizationError{Format: raw.Format, Reason: "extraction failed", Err: err}
	}
	if !isTextual(mimeType) && len(raw.Content) > 0 && strings.TrimSpace(Clean(result.Text)) == "" {
		return nil, &domain.NormalizationError{Format: raw.Format, Reason: "no text could be extracted"}
	}
	return result, nil
}

func (r *Registry) extractDetected(ctx context.Context, raw *domain.RawDocument, mimeType string, warnings []string) (*driven.NormaliseResult, []string) {
	normaliser := r.lookup(mimeType)
	if normaliser == nil {
		return lossyText(raw), warnings
	}

	result, err := normaliser.Normalise(ctx, raw)
	if err != nil {
		logger.Warn("normalise %s: %s extraction failed: %v", raw.ID, FormatName(mimeType), err)
		warnings = append(warnings, fmt.Sprintf("%s extraction failed (%v); decoded as plain text", FormatName(mimeType), err))
		return lossyText(raw), warnings
	}
	return result, warnings
}

// isTextual reports whether an empty extraction is a legitimate result.
func isTextual(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/") || mimeType == MIMEEmail
}

// lossyText decodes content as UTF-8, dropping invalid sequences.
func lossyText(raw *domain.RawDocument) *driven.NormaliseResult {
	return &driven.NormaliseResult{
		Text:       strings.ToValidUTF8(string(raw.Content), ""),
		Confidence: 0.3,
	}
}
