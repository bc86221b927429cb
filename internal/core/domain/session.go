package domain

import (
	"strings"
	"time"
)

// SessionKey identifies a reading session. A change in any field means the
// merged content tree, expansion state and active cursor are discarded.
type SessionKey struct {
	// TextID identifies the text. Required.
	TextID string

	// ContentID optionally selects one content of the text.
	ContentID string

	// VersionID optionally selects a version of the text.
	VersionID string
}

// String returns a stable representation usable as a storage key.
func (k SessionKey) String() string {
	parts := []string{k.TextID}
	if k.ContentID != "" || k.VersionID != "" {
		parts = append(parts, k.ContentID)
	}
	if k.VersionID != "" {
		parts = append(parts, k.VersionID)
	}
	return strings.Join(parts, "/")
}

// IsZero reports whether the key has no text.
func (k SessionKey) IsZero() bool {
	return k.TextID == ""
}

// Request builds a page request for this session.
func (k SessionKey) Request(anchor string, dir Direction, size int) PageRequest {
	return PageRequest{
		TextID:    k.TextID,
		ContentID: k.ContentID,
		VersionID: k.VersionID,
		Anchor:    anchor,
		Direction: dir,
		Size:      size,
	}
}

// ReadingPosition is a persisted location of a session.
type ReadingPosition struct {
	// Key identifies the session.
	Key SessionKey

	// SectionID is the last navigated section or segment.
	SectionID string

	// UpdatedAt is when the position was last written.
	UpdatedAt time.Time
}
