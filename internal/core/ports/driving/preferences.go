package driving

import "github.com/custodia-labs/lectern/internal/core/domain"

// PreferencesService reads and writes reading preferences.
type PreferencesService interface {
	// Get returns the configured preferences with defaults applied.
	Get() (domain.Preferences, error)

	// Save validates and persists preferences.
	Save(prefs domain.Preferences) error

	// GetDefaults returns the default preferences.
	GetDefaults() domain.Preferences
}
