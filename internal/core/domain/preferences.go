package domain

import "fmt"

// Preference defaults.
const (
	// DefaultPageSize is the number of segments requested per page.
	DefaultPageSize = 10

	// MaxPageSize bounds page requests.
	MaxPageSize = 200

	// DefaultLanguage is used when no language preference is configured.
	DefaultLanguage = "en"
)

// LayoutMode controls how the reading pane arranges content.
type LayoutMode string

// Available layout modes.
const (
	// LayoutProse renders segments as flowing paragraphs.
	LayoutProse LayoutMode = "prose"

	// LayoutSegmented renders one block per segment with its ordinal.
	LayoutSegmented LayoutMode = "segmented"
)

// IsValid returns true if the layout mode is recognised.
func (m LayoutMode) IsValid() bool {
	return m == LayoutProse || m == LayoutSegmented
}

// Preferences are read-only reading inputs sourced from persisted config.
type Preferences struct {
	// PageSize is the number of segments per page.
	PageSize int

	// Language selects TOC titles and translations.
	Language string

	// Layout is the reading pane layout.
	Layout LayoutMode
}

// DefaultPreferences returns preferences with all defaults applied.
func DefaultPreferences() Preferences {
	return Preferences{
		PageSize: DefaultPageSize,
		Language: DefaultLanguage,
		Layout:   LayoutSegmented,
	}
}

// Validate checks the preferences are usable.
func (p Preferences) Validate() error {
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size must be 1-%d, got %d", ErrInvalidInput, MaxPageSize, p.PageSize)
	}
	if p.Language == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidInput)
	}
	if !p.Layout.IsValid() {
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidInput, p.Layout)
	}
	return nil
}
