package driving

import (
	"context"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// AnalysisService measures texts and documents.
type AnalysisService interface {
	// AnalyzeText computes the metrics of a plain text. Identical texts
	// are served from a bounded cache.
	AnalyzeText(ctx context.Context, text string) (*domain.MetricsSnapshot, error)

	// AnalyzeDocument normalises a raw document and measures its text.
	AnalyzeDocument(ctx context.Context, raw *domain.RawDocument) (*domain.DocumentAnalysis, error)
}
