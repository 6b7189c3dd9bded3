package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/custodia-labs/penmark/internal/cache"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
	"github.com/custodia-labs/penmark/internal/logger"
	"github.com/custodia-labs/penmark/internal/scoring"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService measures texts, caching results by content hash.
type AnalysisService struct {
	registry       driven.NormaliserRegistry
	recorder       driven.MetricsRecorder
	cache          *cache.Cache[string, domain.MetricsSnapshot]
	confidentWords int
	now            func() time.Time
}

// NewAnalysisService creates an analysis service.
// The registry is only needed by AnalyzeDocument and may be nil otherwise.
func NewAnalysisService(registry driven.NormaliserRegistry, settings domain.AnalysisSettings) *AnalysisService {
	return &AnalysisService{
		registry:       registry,
		cache:          cache.New[string, domain.MetricsSnapshot](settings.CacheSize, settings.CacheTTL),
		confidentWords: settings.ConfidentWordCount,
		now:            time.Now,
	}
}

// SetMetricsRecorder sets the optional recorder for analysis timings.
func (s *AnalysisService) SetMetricsRecorder(recorder driven.MetricsRecorder) {
	s.recorder = recorder
}

// CacheStats reports the analysis cache counters.
func (s *AnalysisService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// AnalyzeText computes the metrics snapshot of text.
func (s *AnalysisService) AnalyzeText(ctx context.Context, text string) (*domain.MetricsSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := s.now()

	key := contentKey(text)
	if cached, ok := s.cache.Get(key); ok {
		logger.Debug("analysis cache hit %s", key[:12])
		s.observe(start, true)
		snapshot := cached.Clone()
		return &snapshot, nil
	}

	snapshot, _ := scoring.Measure(text, s.confidentWords, start)
	s.cache.Set(key, snapshot.Clone())
	logger.Debug("analysed %d words", snapshot.Vocabulary.TotalWords)
	s.observe(start, false)
	return &snapshot, nil
}

// AnalyzeDocument normalises raw and measures the cleaned text.
func (s *AnalysisService) AnalyzeDocument(ctx context.Context, raw *domain.RawDocument) (*domain.DocumentAnalysis, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("analyze document: no normaliser registry: %w", domain.ErrInvalidInput)
	}
	doc, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}
	for _, w := range doc.Warnings {
		logger.Warn("%s: %s", doc.DocumentID, w)
	}

	snapshot, err := s.AnalyzeText(ctx, doc.Text)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentAnalysis{Document: doc, Metrics: *snapshot}, nil
}

func (s *AnalysisService) observe(start time.Time, cached bool) {
	if s.recorder != nil {
		s.recorder.ObserveAnalysis(s.now().Sub(start), cached)
	}
}

// contentKey is the hex SHA-256 of text.
func contentKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
