package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
	"github.com/custodia-labs/lectern/internal/logger"
)

// Ensure TOCService implements the interface.
var _ driving.TOCService = (*TOCService)(nil)

// DefaultTOCPageLimit is the number of contents requested per TOC page.
const DefaultTOCPageLimit = 100

// maxTOCPages stops a server that never returns a short page.
const maxTOCPages = 1000

type tocKey struct {
	textID   string
	language string
}

// TOCService loads and caches tables of contents.
type TOCService struct {
	source driven.TOCSource
	limit  int

	mu      sync.Mutex
	cache   map[tocKey]*domain.TableOfContents
	current *domain.TableOfContents
}

// NewTOCService creates a TOC service. A non-positive limit uses
// DefaultTOCPageLimit.
func NewTOCService(source driven.TOCSource, limit int) *TOCService {
	if limit <= 0 {
		limit = DefaultTOCPageLimit
	}
	return &TOCService{
		source: source,
		limit:  limit,
		cache:  make(map[tocKey]*domain.TableOfContents),
	}
}

// Load returns the full table of contents of a text, fetching every page
// on first use. The result becomes the current TOC.
func (s *TOCService) Load(ctx context.Context, textID, language string) (*domain.TableOfContents, error) {
	if textID == "" {
		return nil, fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}
	key := tocKey{textID: textID, language: language}

	s.mu.Lock()
	if toc, ok := s.cache[key]; ok {
		s.current = toc
		s.mu.Unlock()
		return toc, nil
	}
	s.mu.Unlock()

	toc := &domain.TableOfContents{TextID: textID}
	for page := 0; page < maxTOCPages; page++ {
		req := domain.TOCRequest{TextID: textID, Language: language, Limit: s.limit, Skip: page * s.limit}
		logger.Debug("toc: fetching %s contents (skip %d, limit %d)", textID, req.Skip, req.Limit)

		res, err := s.source.FetchContents(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("load table of contents: %w", err)
		}
		if page == 0 {
			toc.TextDetail = res.TextDetail
		}
		toc.Contents = append(toc.Contents, res.Contents...)
		if len(res.Contents) < s.limit {
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = toc
	s.current = toc
	logger.Debug("toc: loaded %d contents for %s", len(toc.Contents), textID)
	return toc, nil
}

// Invalidate drops the cached TOC of a text in every language.
func (s *TOCService) Invalidate(textID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.cache {
		if k.textID == textID {
			delete(s.cache, k)
		}
	}
	if s.current != nil && s.current.TextID == textID {
		s.current = nil
	}
}

// Current returns the most recently loaded TOC, or nil.
func (s *TOCService) Current() *domain.TableOfContents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Sections returns the section forest of the current TOC.
func (s *TOCService) Sections() []domain.Section {
	return s.Current().Sections()
}

// FirstSegmentID resolves id against the current TOC.
func (s *TOCService) FirstSegmentID(id string) (string, bool) {
	return tocResolver{toc: s.Current()}.FirstSegmentID(id)
}

// PathTo returns the ancestors of id in the current TOC.
func (s *TOCService) PathTo(id string) ([]string, bool) {
	toc := s.Current()
	if toc == nil {
		return nil, false
	}
	return toc.PathTo(id)
}

// tocResolver anchors navigation targets using one table of contents.
type tocResolver struct {
	toc *domain.TableOfContents
}

// FirstSegmentID maps a section id to its first segment and a segment id
// to itself.
func (r tocResolver) FirstSegmentID(id string) (string, bool) {
	if r.toc == nil || id == "" {
		return "", false
	}
	sections := r.toc.Sections()
	if _, isSection := domain.FindSection(sections, id); isSection {
		return r.toc.FirstSegmentOf(id)
	}
	if domain.ContainsID(sections, id) {
		return id, true
	}
	return "", false
}
