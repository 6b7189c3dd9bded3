package domain

import (
	"sort"
	"time"
)

// BaselineSample is one writing sample contributing to a profile.
type BaselineSample struct {
	ID      string
	Metrics MetricsSnapshot

	// Words is the sorted set of distinct words in the sample.
	Words []string

	AddedAt time.Time
}

// BaselineProfile aggregates an author's samples.
// Profiles are values: every update produces a new profile and readers
// never observe a partially updated one.
type BaselineProfile struct {
	AuthorID string

	// Samples holds at most the configured maximum, oldest first.
	Samples []BaselineSample

	// Aggregate is the arithmetic mean over the active samples.
	Aggregate MetricsSnapshot

	// ActiveSamples counts samples that were inside the expiry window at
	// the last update.
	ActiveSamples int

	// Confidence is in [0, 1] and grows with the number of active samples.
	Confidence float64

	CreatedAt   time.Time
	LastUpdated time.Time
}

// Clone returns a deep copy of the profile.
func (p *BaselineProfile) Clone() *BaselineProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Aggregate = p.Aggregate.Clone()
	out.Samples = make([]BaselineSample, len(p.Samples))
	for i, s := range p.Samples {
		s.Metrics = s.Metrics.Clone()
		s.Words = append([]string(nil), s.Words...)
		out.Samples[i] = s
	}
	return &out
}

// WordSet returns the sorted union of the words of every sample added at
// or after since. A zero since includes every sample.
func (p *BaselineProfile) WordSet(since time.Time) []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, s := range p.Samples {
		if !since.IsZero() && s.AddedAt.Before(since) {
			continue
		}
		for _, w := range s.Words {
			seen[w] = struct{}{}
		}
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// DriftLevel grades how far a text moved from a baseline.
type DriftLevel string

// Drift levels, in increasing severity.
const (
	DriftNone       DriftLevel = "none"
	DriftModerate   DriftLevel = "moderate"
	DriftHigh       DriftLevel = "high"
	DriftSuspicious DriftLevel = "suspicious"
)

// Comparison is the result of comparing one text against a baseline.
type Comparison struct {
	AuthorID string

	// Similarity is the Jaccard similarity of the text's words to the
	// baseline vocabulary.
	Similarity float64

	// StyleDrift is the mean relative change across style metrics.
	StyleDrift float64

	// VocabularyShift is the mean relative change across vocabulary metrics.
	VocabularyShift float64

	// GradeLevelChange is the Flesch-Kincaid grade difference.
	GradeLevelChange float64

	Level DriftLevel
	Flags []string

	// Metrics is the snapshot of the compared text.
	Metrics MetricsSnapshot

	// AIProbability is set only when an AI scorer is configured.
	AIProbability *float64
}
