package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driven"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyAssignThreshold    = "assignment.threshold"
	keyAssignConcurrency  = "assignment.concurrency"
	keyAssignMaxBatch     = "assignment.max_batch_size"
	keyBaselineMin        = "baseline.min_samples"
	keyBaselineMax        = "baseline.max_samples"
	keyBaselineExpireDays = "baseline.expire_days"
	keyBaselineFloor      = "baseline.low_confidence_floor"
	keyBaselinePenalty    = "baseline.max_variance_penalty"
	keyCacheSize          = "analysis.cache_size"
	keyCacheTTL           = "analysis.cache_ttl_seconds"
	keyConfidentWords     = "analysis.confident_word_count"
)

const day = 24 * time.Hour

// setting binds a config key to a field of domain.EngineSettings.
// Every value travels as float64; integer settings reject fractions.
type setting struct {
	integer bool
	get     func(*domain.EngineSettings) float64
	set     func(*domain.EngineSettings, float64)
}

var settingsTable = map[string]setting{
	keyAssignThreshold: {
		get: func(s *domain.EngineSettings) float64 { return s.Assignment.Threshold },
		set: func(s *domain.EngineSettings, v float64) { s.Assignment.Threshold = v },
	},
	keyAssignConcurrency: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Assignment.Concurrency) },
		set:     func(s *domain.EngineSettings, v float64) { s.Assignment.Concurrency = int(v) },
	},
	keyAssignMaxBatch: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Assignment.MaxBatchSize) },
		set:     func(s *domain.EngineSettings, v float64) { s.Assignment.MaxBatchSize = int(v) },
	},
	keyBaselineMin: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Baseline.MinSamples) },
		set:     func(s *domain.EngineSettings, v float64) { s.Baseline.MinSamples = int(v) },
	},
	keyBaselineMax: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Baseline.MaxSamples) },
		set:     func(s *domain.EngineSettings, v float64) { s.Baseline.MaxSamples = int(v) },
	},
	keyBaselineExpireDays: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Baseline.ExpireAfter / day) },
		set:     func(s *domain.EngineSettings, v float64) { s.Baseline.ExpireAfter = time.Duration(v) * day },
	},
	keyBaselineFloor: {
		get: func(s *domain.EngineSettings) float64 { return s.Baseline.LowConfidenceFloor },
		set: func(s *domain.EngineSettings, v float64) { s.Baseline.LowConfidenceFloor = v },
	},
	keyBaselinePenalty: {
		get: func(s *domain.EngineSettings) float64 { return s.Baseline.MaxVariancePenalty },
		set: func(s *domain.EngineSettings, v float64) { s.Baseline.MaxVariancePenalty = v },
	},
	keyCacheSize: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Analysis.CacheSize) },
		set:     func(s *domain.EngineSettings, v float64) { s.Analysis.CacheSize = int(v) },
	},
	keyCacheTTL: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return s.Analysis.CacheTTL.Seconds() },
		set:     func(s *domain.EngineSettings, v float64) { s.Analysis.CacheTTL = time.Duration(v) * time.Second },
	},
	keyConfidentWords: {
		integer: true,
		get:     func(s *domain.EngineSettings) float64 { return float64(s.Analysis.ConfidentWordCount) },
		set:     func(s *domain.EngineSettings, v float64) { s.Analysis.ConfidentWordCount = int(v) },
	},
}

// SettingsService manages engine settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current settings. A stored value that would make the
// settings invalid is ignored in favour of the default.
func (s *SettingsService) Get() (*domain.EngineSettings, error) {
	settings := domain.DefaultEngineSettings()
	var stored []string
	for _, key := range s.Keys() {
		if v, ok := s.configStore.Get(key); ok && isNumber(v) {
			stored = append(stored, key)
		}
	}

	all := settings
	for _, key := range stored {
		settingsTable[key].set(&all, s.configStore.GetFloat(key))
	}
	if all.Validate() == nil {
		return &all, nil
	}

	for _, key := range stored {
		candidate := settings
		settingsTable[key].set(&candidate, s.configStore.GetFloat(key))
		if candidate.Validate() == nil {
			settings = candidate
		}
	}
	return &settings, nil
}

// Save validates and persists every setting.
func (s *SettingsService) Save(settings *domain.EngineSettings) error {
	if settings == nil {
		return fmt.Errorf("save settings: %w", domain.ErrInvalidInput)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, key := range s.Keys() {
		if err := s.configStore.Set(key, storedValue(settingsTable[key], settingsTable[key].get(settings))); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// Set parses value, checks the resulting settings and stores the key.
func (s *SettingsService) Set(key, value string) error {
	entry, ok := settingsTable[key]
	if !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("setting %s: %q is not a number: %w", key, value, domain.ErrInvalidInput)
	}
	if entry.integer && v != math.Trunc(v) {
		return fmt.Errorf("setting %s: %q is not a whole number: %w", key, value, domain.ErrInvalidInput)
	}

	current, err := s.Get()
	if err != nil {
		return err
	}
	entry.set(current, v)
	if err := current.Validate(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return s.configStore.Set(key, storedValue(entry, v))
}

// Value returns the effective value of one key.
func (s *SettingsService) Value(key string) (float64, error) {
	entry, ok := settingsTable[key]
	if !ok {
		return 0, fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	current, err := s.Get()
	if err != nil {
		return 0, err
	}
	return entry.get(current), nil
}

// Reset removes a stored key so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if _, ok := settingsTable[key]; !ok {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	return s.configStore.Unset(key)
}

// Keys lists the recognised configuration keys, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingsTable))
	for k := range settingsTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns the built-in settings.
func (s *SettingsService) GetDefaults() domain.EngineSettings {
	return domain.DefaultEngineSettings()
}

func storedValue(entry setting, v float64) any {
	if entry.integer {
		return int64(v)
	}
	return v
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, int, int64:
		return true
	}
	return false
}
