package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/penmark/internal/baseline"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
	"github.com/custodia-labs/penmark/internal/logger"
	"github.com/custodia-labs/penmark/internal/scoring"
	"github.com/custodia-labs/penmark/internal/similarity"
)

// Ensure BaselineService implements the interface.
var _ driving.BaselineService = (*BaselineService)(nil)

// BaselineService builds author baselines and detects drift against them.
type BaselineService struct {
	store          driven.BaselineStore
	aiScorer       driven.AIScorer
	aggregator     *baseline.Aggregator
	locks          *baseline.KeyedMutex
	confidentWords int
	now            func() time.Time
}

// NewBaselineService creates a baseline service backed by store.
func NewBaselineService(store driven.BaselineStore, settings domain.EngineSettings) *BaselineService {
	return &BaselineService{
		store:          store,
		aggregator:     baseline.NewAggregator(settings.Baseline),
		locks:          baseline.NewKeyedMutex(),
		confidentWords: settings.Analysis.ConfidentWordCount,
		now:            time.Now,
	}
}

// SetAIScorer sets the optional scorer used to fill Comparison.AIProbability.
func (s *BaselineService) SetAIScorer(scorer driven.AIScorer) {
	s.aiScorer = scorer
}

// WithClock replaces the time source. Intended for tests.
func (s *BaselineService) WithClock(now func() time.Time) *BaselineService {
	s.now = now
	s.aggregator = s.aggregator.WithClock(now)
	return s
}

// BuildBaseline creates a fresh profile from essays and stores it.
// Blank essays are ignored.
func (s *BaselineService) BuildBaseline(
	ctx context.Context, authorID string, essays []string,
) (*domain.BaselineProfile, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, fmt.Errorf("build baseline: empty author: %w", domain.ErrInvalidInput)
	}
	logger.Section("Baseline")
	logger.Debug("building baseline for %s from %d essays", authorID, len(essays))

	samples := make([]domain.BaselineSample, 0, len(essays))
	for _, essay := range essays {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(essay) == "" {
			continue
		}
		samples = append(samples, s.sample(essay))
	}
	if len(samples) == 0 {
		return nil, &domain.InsufficientDataError{AuthorID: authorID, Have: 0, Need: 1}
	}

	unlock := s.locks.Lock(authorID)
	defer unlock()

	profile, err := s.aggregator.CreateOrUpdate(authorID, nil, samples...)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save baseline: %w", err)
	}
	logger.Info("baseline %s: %d samples, confidence %.2f", authorID, len(profile.Samples), profile.Confidence)
	return profile, nil
}

// AddSample folds text into an author's profile, creating the profile
// when the author has none.
func (s *BaselineService) AddSample(ctx context.Context, authorID, text string) (*domain.BaselineProfile, error) {
	authorID = strings.TrimSpace(authorID)
	if authorID == "" {
		return nil, fmt.Errorf("add sample: empty author: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("add sample: empty text: %w", domain.ErrInvalidInput)
	}
	sample := s.sample(text)

	unlock := s.locks.Lock(authorID)
	defer unlock()

	existing, err := s.store.Load(ctx, authorID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load baseline: %w", err)
	}

	profile, err := s.aggregator.CreateOrUpdate(authorID, existing, sample)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save baseline: %w", err)
	}
	logger.Debug("baseline %s now has %d samples", authorID, len(profile.Samples))
	return profile, nil
}

// Get returns the stored profile of an author.
func (s *BaselineService) Get(ctx context.Context, authorID string) (*domain.BaselineProfile, error) {
	profile, err := s.store.Load(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("get baseline %s: %w", authorID, err)
	}
	return profile, nil
}

// Delete removes an author's profile.
func (s *BaselineService) Delete(ctx context.Context, authorID string) error {
	unlock := s.locks.Lock(authorID)
	defer unlock()

	if err := s.store.Delete(ctx, authorID); err != nil {
		return fmt.Errorf("delete baseline %s: %w", authorID, err)
	}
	return nil
}

// List returns every stored profile.
func (s *BaselineService) List(ctx context.Context) ([]domain.BaselineProfile, error) {
	return s.store.List(ctx)
}

// CompareToBaseline measures text against profile.
func (s *BaselineService) CompareToBaseline(
	ctx context.Context, profile *domain.BaselineProfile, text string,
) (*domain.Comparison, error) {
	if profile == nil {
		return nil, fmt.Errorf("compare: nil baseline: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	snapshot, tokens := scoring.Measure(text, s.confidentWords, now)
	report := scoring.Drift(profile.Aggregate, snapshot)

	comparison := &domain.Comparison{
		AuthorID:         profile.AuthorID,
		Similarity:       similarity.Jaccard(tokens.Words, profile.WordSet(s.aggregator.ActiveSince(now))),
		StyleDrift:       report.StyleDrift,
		VocabularyShift:  report.VocabularyShift,
		GradeLevelChange: report.GradeLevelChange,
		Level:            report.Level,
		Flags:            report.Flags,
		Metrics:          snapshot,
	}

	if s.aiScorer != nil {
		p, err := s.aiScorer.Score(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("ai score: %w", err)
		}
		comparison.AIProbability = &p
	}

	logger.Debug("compare %s: level=%s similarity=%.3f", profile.AuthorID, comparison.Level, comparison.Similarity)
	return comparison, nil
}

// CompareAuthor loads the profile of authorID and compares text against it.
func (s *BaselineService) CompareAuthor(ctx context.Context, authorID, text string) (*domain.Comparison, error) {
	profile, err := s.Get(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.CompareToBaseline(ctx, profile, text)
}

func (s *BaselineService) sample(text string) domain.BaselineSample {
	now := s.now()
	snapshot, tokens := scoring.Measure(text, s.confidentWords, now)
	return domain.BaselineSample{
		ID:      uuid.NewString(),
		Metrics: snapshot,
		Words:   distinctWords(tokens),
		AddedAt: now,
	}
}

// distinctWords returns the sorted distinct words of tokens.
func distinctWords(tokens domain.TokenSet) []string {
	set := tokens.Distinct()
	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
