package services

import (
	"fmt"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
)

// Ensure PreferencesService implements the interface.
var _ driving.PreferencesService = (*PreferencesService)(nil)

// Config keys for reading preferences.
const (
	keyPageSize = "reader.page_size"
	keyLanguage = "reader.language"
	keyLayout   = "reader.layout"
)

// PreferencesService reads reading preferences from the config store.
type PreferencesService struct {
	configStore driven.ConfigStore
}

// NewPreferencesService creates a new preferences service.
func NewPreferencesService(configStore driven.ConfigStore) *PreferencesService {
	return &PreferencesService{configStore: configStore}
}

// Get returns the configured preferences. Missing or invalid values fall
// back to their defaults.
func (s *PreferencesService) Get() (domain.Preferences, error) {
	defaults := domain.DefaultPreferences()
	if s.configStore == nil {
		return defaults, nil
	}

	prefs := domain.Preferences{
		PageSize: s.getPageSize(defaults.PageSize),
		Language: s.getString(keyLanguage, defaults.Language),
		Layout:   s.getLayout(defaults.Layout),
	}
	return prefs, nil
}

// Save validates and persists preferences.
func (s *PreferencesService) Save(prefs domain.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if err := s.configStore.Set(keyPageSize, prefs.PageSize); err != nil {
		return fmt.Errorf("save page size: %w", err)
	}
	if err := s.configStore.Set(keyLanguage, prefs.Language); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	if err := s.configStore.Set(keyLayout, string(prefs.Layout)); err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	return nil
}

// GetDefaults returns the default preferences.
func (s *PreferencesService) GetDefaults() domain.Preferences {
	return domain.DefaultPreferences()
}

func (s *PreferencesService) getPageSize(defaultVal int) int {
	size := s.configStore.GetInt(keyPageSize)
	if size < 1 || size > domain.MaxPageSize {
		return defaultVal
	}
	return size
}

func (s *PreferencesService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *PreferencesService) getLayout(defaultVal domain.LayoutMode) domain.LayoutMode {
	mode := domain.LayoutMode(s.configStore.GetString(keyLayout))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}
