package driven

import (
	"context"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// LocationStore persists the shareable reading location of a session.
// Writes replace the current location; no history entries are added.
type LocationStore interface {
	// SectionID returns the stored section id for the session, or an
	// empty string when none is stored.
	SectionID(ctx context.Context, key domain.SessionKey) (string, error)

	// ReplaceSectionID stores id as the session's location.
	ReplaceSectionID(ctx context.Context, key domain.SessionKey, id string) error
}

// LocationHistory lists persisted reading positions.
type LocationHistory interface {
	// Recent returns up to limit positions, most recently updated first.
	Recent(ctx context.Context, limit int) ([]domain.ReadingPosition, error)
}
