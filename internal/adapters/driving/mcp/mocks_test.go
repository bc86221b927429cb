package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// mockContentService is a mock implementation of driving.ContentService.
type mockContentService struct {
	page     *domain.ContentPage
	location *domain.Location
	err      error
	lastReq  domain.PageRequest
	lastLang string
}

func (m *mockContentService) ReadPage(_ context.Context, req domain.PageRequest) (*domain.ContentPage, error) {
	m.lastReq = req
	return m.page, m.err
}

func (m *mockContentService) Locate(_ context.Context, _, language, _ string) (*domain.Location, error) {
	m.lastLang = language
	return m.location, m.err
}

// mockTOCService is a mock implementation of driving.TOCService.
type mockTOCService struct {
	toc      *domain.TableOfContents
	err      error
	lastLang string
}

func (m *mockTOCService) Load(_ context.Context, _, language string) (*domain.TableOfContents, error) {
	m.lastLang = language
	return m.toc, m.err
}

func (m *mockTOCService) Invalidate(string) {}

// mockPreferencesService is a mock implementation of driving.PreferencesService.
type mockPreferencesService struct {
	prefs domain.Preferences
	err   error
}

func (m *mockPreferencesService) Get() (domain.Preferences, error) {
	return m.prefs, m.err
}

func (m *mockPreferencesService) Save(domain.Preferences) error { return nil }

func (m *mockPreferencesService) GetDefaults() domain.Preferences {
	return domain.DefaultPreferences()
}

// mockHistory is a mock implementation of driven.LocationHistory.
type mockHistory struct {
	positions []domain.ReadingPosition
	err       error
}

func (m *mockHistory) Recent(context.Context, int) ([]domain.ReadingPosition, error) {
	return m.positions, m.err
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	s, err := NewServer(ports)
	require.NoError(t, err)
	return s
}
