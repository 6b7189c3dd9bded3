// Package baseline aggregates an author's writing samples into a
// BaselineProfile.
//
// Profiles are immutable values. CreateOrUpdate never modifies the profile
// it is given and always returns a fresh copy, so concurrent readers see
// either the old or the new profile. Writers for the same author must be
// serialised by the caller, typically with KeyedMutex.
package baseline

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

// Aggregator builds and updates baseline profiles.
type Aggregator struct {
	settings domain.BaselineSettings
	now      func() time.Time
}

// NewAggregator creates an aggregator with the given settings.
func NewAggregator(settings domain.BaselineSettings) *Aggregator {
	return &Aggregator{settings: settings, now: time.Now}
}

// WithClock returns a copy of the aggregator that reads time from now.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	cp := *a
	cp.now = now
	return &cp
}

// CreateOrUpdate folds samples into existing, or creates a new profile when
// existing is nil. Creating a profile without samples fails with
// *domain.InsufficientDataError.
func (a *Aggregator) CreateOrUpdate(
	authorID string,
	existing *domain.BaselineProfile,
	samples ...domain.BaselineSample,
) (*domain.BaselineProfile, error) {
	if authorID == "" {
		return nil, fmt.Errorf("baseline author: %w", domain.ErrInvalidInput)
	}
	if existing != nil && existing.AuthorID != authorID {
		return nil, fmt.Errorf("baseline belongs to %q, not %q: %w", existing.AuthorID, authorID, domain.ErrInvalidInput)
	}
	if existing == nil && len(samples) == 0 {
		return nil, &domain.InsufficientDataError{AuthorID: authorID, Have: 0, Need: 1}
	}

	now := a.now()
	profile := &domain.BaselineProfile{AuthorID: authorID, CreatedAt: now}
	if existing != nil {
		profile = existing.Clone()
	}

	for _, s := range samples {
		s.Metrics = s.Metrics.Clone()
		s.Words = append([]string(nil), s.Words...)
		if s.AddedAt.IsZero() {
			s.AddedAt = now
		}
		profile.Samples = append(profile.Samples, s)
	}
	sort.SliceStable(profile.Samples, func(i, j int) bool {
		return profile.Samples[i].AddedAt.Before(profile.Samples[j].AddedAt)
	})
	if limit := a.settings.MaxSamples; limit > 0 && len(profile.Samples) > limit {
		profile.Samples = append([]domain.BaselineSample(nil), profile.Samples[len(profile.Samples)-limit:]...)
	}

	active := a.activeSamples(profile.Samples, now)
	profile.ActiveSamples = len(active)
	profile.Aggregate = mean(active, now)
	profile.Confidence = a.confidence(active)
	profile.LastUpdated = now
	return profile, nil
}

// ActiveSince returns the cutoff before which samples are expired.
// The zero time means nothing expires.
func (a *Aggregator) ActiveSince(now time.Time) time.Time {
	if a.settings.ExpireAfter <= 0 {
		return time.Time{}
	}
	return now.Add(-a.settings.ExpireAfter)
}

func (a *Aggregator) activeSamples(samples []domain.BaselineSample, now time.Time) []domain.BaselineSample {
	cutoff := a.ActiveSince(now)
	if cutoff.IsZero() {
		return samples
	}
	active := make([]domain.BaselineSample, 0, len(samples))
	for _, s := range samples {
		if !s.AddedAt.Before(cutoff) {
			active = append(active, s)
		}
	}
	return active
}

// confidence stays at or below the low floor while fewer than MinSamples
// are active, then rises linearly to 1 at MaxSamples. Inconsistent samples
// reduce it by up to MaxVariancePenalty.
func (a *Aggregator) confidence(active []domain.BaselineSample) float64 {
	n := len(active)
	if n == 0 {
		return 0
	}
	minN, maxN := a.settings.MinSamples, a.settings.MaxSamples
	floor := a.settings.LowConfidenceFloor

	var base float64
	switch {
	case n < minN:
		base = floor * float64(n) / float64(minN)
	case n >= maxN:
		base = 1
	default:
		base = floor + (1-floor)*float64(n-minN+1)/float64(maxN-minN+1)
	}

	penalty := math.Min(a.settings.MaxVariancePenalty, variation(active))
	return base * (1 - penalty)
}

// variation is the mean coefficient of variation over the headline
// metrics of the samples.
func variation(samples []domain.BaselineSample) float64 {
	if len(samples) < 2 {
		return 0
	}
	extractors := []func(domain.MetricsSnapshot) float64{
		func(m domain.MetricsSnapshot) float64 { return m.Vocabulary.Diversity },
		func(m domain.MetricsSnapshot) float64 { return m.Vocabulary.Complexity },
		func(m domain.MetricsSnapshot) float64 { return m.Vocabulary.Sophistication },
		func(m domain.MetricsSnapshot) float64 { return m.Style.AverageSentenceLength },
	}

	var sum float64
	var counted int
	for _, get := range extractors {
		var mu float64
		for _, s := range samples {
			mu += get(s.Metrics)
		}
		mu /= float64(len(samples))
		if mu == 0 {
			continue
		}
		var ss float64
		for _, s := range samples {
			d := get(s.Metrics) - mu
			ss += d * d
		}
		sum += math.Sqrt(ss/float64(len(samples))) / mu
		counted++
	}
	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}
