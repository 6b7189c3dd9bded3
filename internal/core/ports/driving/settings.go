package driving

import "github.com/custodia-labs/penmark/internal/core/domain"

// SettingsService manages engine settings.
type SettingsService interface {
	// Get retrieves the current settings, falling back to defaults for
	// keys that are missing or out of range.
	Get() (*domain.EngineSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.EngineSettings) error

	// Set stores a single key after validating the resulting settings.
	Set(key, value string) error

	// Value returns the effective value of one key.
	Value(key string) (float64, error)

	// Reset removes a stored key so its default applies again.
	Reset(key string) error

	// Keys lists the recognised configuration keys.
	Keys() []string

	// GetDefaults returns the built-in settings.
	GetDefaults() domain.EngineSettings
}
