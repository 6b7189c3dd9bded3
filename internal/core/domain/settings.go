package domain

import (
	"fmt"
	"runtime"
	"time"
)

// Engine defaults.
const (
	DefaultAutoAssignThreshold = 0.85
	DefaultMaxBatchSize        = 50
	DefaultMinSamples          = 3
	DefaultMaxSamples          = 10
	DefaultExpireAfter         = 365 * 24 * time.Hour
	DefaultLowConfidenceFloor  = 0.3
	DefaultMaxVariancePenalty  = 0.5
	DefaultCacheSize           = 256
	DefaultCacheTTL            = time.Hour
	DefaultConfidentWordCount  = 250
)

// EngineSettings holds tunables for analysis, baselines and assignment.
type EngineSettings struct {
	Assignment AssignmentSettings
	Baseline   BaselineSettings
	Analysis   AnalysisSettings
}

// AssignmentSettings tunes the batch orchestrator.
type AssignmentSettings struct {
	// Threshold is the minimum similarity for auto-assignment.
	Threshold float64

	// Concurrency bounds the worker pool. Zero means GOMAXPROCS.
	Concurrency int

	// MaxBatchSize rejects larger batches. Zero means unlimited.
	MaxBatchSize int
}

// BaselineSettings tunes the baseline aggregator.
type BaselineSettings struct {
	MinSamples int
	MaxSamples int

	// ExpireAfter excludes older samples from aggregation. Zero disables expiry.
	ExpireAfter time.Duration

	// LowConfidenceFloor caps confidence while below MinSamples.
	LowConfidenceFloor float64

	// MaxVariancePenalty caps how much sample variance can reduce confidence.
	MaxVariancePenalty float64
}

// AnalysisSettings tunes text analysis.
type AnalysisSettings struct {
	CacheSize int
	CacheTTL  time.Duration

	// ConfidentWordCount is the word count at which a snapshot reaches
	// full confidence.
	ConfidentWordCount int
}

// DefaultEngineSettings returns the built-in defaults.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		Assignment: AssignmentSettings{
			Threshold:    DefaultAutoAssignThreshold,
			Concurrency:  runtime.GOMAXPROCS(0),
			MaxBatchSize: DefaultMaxBatchSize,
		},
		Baseline: BaselineSettings{
			MinSamples:         DefaultMinSamples,
			MaxSamples:         DefaultMaxSamples,
			ExpireAfter:        DefaultExpireAfter,
			LowConfidenceFloor: DefaultLowConfidenceFloor,
			MaxVariancePenalty: DefaultMaxVariancePenalty,
		},
		Analysis: AnalysisSettings{
			CacheSize:          DefaultCacheSize,
			CacheTTL:           DefaultCacheTTL,
			ConfidentWordCount: DefaultConfidentWordCount,
		},
	}
}

// Validate checks that the settings are internally consistent.
func (s EngineSettings) Validate() error {
	if s.Assignment.Threshold < 0 || s.Assignment.Threshold > 1 {
		return fmt.Errorf("assignment threshold %.2f outside [0, 1]: %w", s.Assignment.Threshold, ErrInvalidInput)
	}
	if s.Assignment.Concurrency < 0 || s.Assignment.MaxBatchSize < 0 {
		return fmt.Errorf("assignment limits must not be negative: %w", ErrInvalidInput)
	}
	if s.Baseline.MinSamples < 1 {
		return fmt.Errorf("baseline min samples must be at least 1: %w", ErrInvalidInput)
	}
	if s.Baseline.MaxSamples < s.Baseline.MinSamples {
		return fmt.Errorf("baseline max samples %d below min samples %d: %w",
			s.Baseline.MaxSamples, s.Baseline.MinSamples, ErrInvalidInput)
	}
	if s.Baseline.LowConfidenceFloor < 0 || s.Baseline.LowConfidenceFloor > 1 {
		return fmt.Errorf("baseline confidence floor outside [0, 1]: %w", ErrInvalidInput)
	}
	if s.Baseline.MaxVariancePenalty < 0 || s.Baseline.MaxVariancePenalty > 1 {
		return fmt.Errorf("baseline variance penalty outside [0, 1]: %w", ErrInvalidInput)
	}
	if s.Analysis.CacheSize < 0 || s.Analysis.ConfidentWordCount < 1 {
		return fmt.Errorf("analysis settings out of range: %w", ErrInvalidInput)
	}
	return nil
}
