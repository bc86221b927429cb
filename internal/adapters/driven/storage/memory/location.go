package memory

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
)

// Ensure LocationStore implements the interface.
var _ driven.LocationStore = (*LocationStore)(nil)

// Location URL scheme and query parameters.
const (
	locationScheme = "lectern"
	locationHost   = "texts"

	paramContent = "contentId"
	paramVersion = "versionId"
	paramSection = "sectionId"
)

// LocationStore keeps one shareable location URL per session. Writes
// replace the URL in place; no history is kept.
type LocationStore struct {
	mu   sync.RWMutex
	urls map[domain.SessionKey]*url.URL
}

// NewLocationStore creates an empty location store.
func NewLocationStore() *LocationStore {
	return &LocationStore{urls: make(map[domain.SessionKey]*url.URL)}
}

// SectionID returns the sectionId of the session's URL, or "".
func (s *LocationStore) SectionID(_ context.Context, key domain.SessionKey) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.urls[key]
	if !ok {
		return "", nil
	}
	return u.Query().Get(paramSection), nil
}

// ReplaceSectionID rewrites the session's URL with a new sectionId.
// An empty id removes the parameter.
func (s *LocationStore) ReplaceSectionID(_ context.Context, key domain.SessionKey, id string) error {
	if key.TextID == "" {
		return fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.urls[key]
	if !ok {
		u = baseURL(key)
		s.urls[key] = u
	}
	q := u.Query()
	if id == "" {
		q.Del(paramSection)
	} else {
		q.Set(paramSection, id)
	}
	u.RawQuery = q.Encode()
	return nil
}

// URL returns the current shareable URL of a session.
func (s *LocationStore) URL(key domain.SessionKey) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.urls[key]; ok {
		return u.String()
	}
	return baseURL(key).String()
}

// FormatLocation builds a lectern:// URL for a session and section.
func FormatLocation(key domain.SessionKey, sectionID string) string {
	u := baseURL(key)
	if sectionID != "" {
		q := u.Query()
		q.Set(paramSection, sectionID)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// ParseLocation parses a lectern:// URL into a session key and section id.
func ParseLocation(raw string) (domain.SessionKey, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return domain.SessionKey{}, "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if u.Scheme != locationScheme || u.Host != locationHost {
		return domain.SessionKey{}, "", fmt.Errorf("%w: not a lectern location: %q", domain.ErrInvalidInput, raw)
	}
	textID := strings.Trim(u.Path, "/")
	if textID == "" || strings.Contains(textID, "/") {
		return domain.SessionKey{}, "", fmt.Errorf("%w: location has no text id: %q", domain.ErrInvalidInput, raw)
	}
	q := u.Query()
	key := domain.SessionKey{
		TextID:    textID,
		ContentID: q.Get(paramContent),
		VersionID: q.Get(paramVersion),
	}
	return key, q.Get(paramSection), nil
}

func baseURL(key domain.SessionKey) *url.URL {
	u := &url.URL{Scheme: locationScheme, Host: locationHost, Path: "/" + key.TextID}
	q := url.Values{}
	if key.ContentID != "" {
		q.Set(paramContent, key.ContentID)
	}
	if key.VersionID != "" {
		q.Set(paramVersion, key.VersionID)
	}
	u.RawQuery = q.Encode()
	return u
}
