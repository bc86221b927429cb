package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
)

// Ensure ContentService implements the interface.
var _ driving.ContentService = (*ContentService)(nil)

// ContentService answers single-page and lookup queries without a
// long-lived reading session.
type ContentService struct {
	source driven.ContentSource
	toc    driving.TOCService
}

// NewContentService creates a content service. toc may be nil, in which
// case Locate is unavailable.
func NewContentService(source driven.ContentSource, toc driving.TOCService) *ContentService {
	return &ContentService{source: source, toc: toc}
}

// ReadPage fetches one page. An empty direction means forward and an
// out-of-range size falls back to the default.
func (s *ContentService) ReadPage(ctx context.Context, req domain.PageRequest) (*domain.ContentPage, error) {
	if req.TextID == "" {
		return nil, fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}
	if req.Direction == "" {
		req.Direction = domain.DirectionNext
	}
	if !req.Direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown direction %q", domain.ErrInvalidInput, req.Direction)
	}
	if req.Size < 1 || req.Size > domain.MaxPageSize {
		req.Size = domain.DefaultPageSize
	}

	page, err := s.source.FetchPage(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return page, nil
}

// Locate resolves id within the text's table of contents.
func (s *ContentService) Locate(ctx context.Context, textID, language, id string) (*domain.Location, error) {
	if s.toc == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, fmt.Errorf("%w: section id is required", domain.ErrInvalidInput)
	}

	toc, err := s.toc.Load(ctx, textID, language)
	if err != nil {
		return nil, err
	}

	contentID, ok := toc.ContentOf(id)
	if !ok {
		return nil, &domain.NotFoundError{Anchor: id, Resource: "section"}
	}
	loc := &domain.Location{TextID: textID, ContentID: contentID, ID: id}
	if sec, found := domain.FindSection(toc.Sections(), id); found {
		loc.Title = sec.Title
	}
	loc.FirstSegmentID, _ = tocResolver{toc: toc}.FirstSegmentID(id)
	loc.Path, _ = toc.PathTo(id)
	return loc, nil
}
