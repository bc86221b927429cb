package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/logger"
)

// PaginationStatus is the coarse loading state of a Paginator.
type PaginationStatus int

const (
	// PaginationIdle means no request is in flight and the last one succeeded.
	PaginationIdle PaginationStatus = iota

	// PaginationLoading means at least one request is in flight.
	PaginationLoading

	// PaginationError means the last completed request failed.
	PaginationError
)

// String returns the string representation of the status.
func (s PaginationStatus) String() string {
	switch s {
	case PaginationIdle:
		return "idle"
	case PaginationLoading:
		return "loading"
	case PaginationError:
		return "error"
	default:
		return "unknown"
	}
}

// PaginationState is a snapshot of a Paginator's loading state.
type PaginationState struct {
	// Status is the coarse state.
	Status PaginationStatus

	// Err is the error of the last failed request, if Status is PaginationError.
	Err error

	// LoadingNext is true while a forward request is in flight.
	LoadingNext bool

	// LoadingPrevious is true while a backward request is in flight.
	LoadingPrevious bool

	// Replacing is true while an initial or replacing request is in flight.
	Replacing bool
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithPageSize sets the number of segments requested per page.
// Sizes outside 1..domain.MaxPageSize fall back to domain.DefaultPageSize.
func WithPageSize(size int) PaginatorOption {
	return func(p *Paginator) {
		if size < 1 || size > domain.MaxPageSize {
			size = domain.DefaultPageSize
		}
		p.pageSize = size
	}
}

// WithSinglePage disables further fetching after the first page, in both
// directions. Used for quoted or embedded excerpts.
func WithSinglePage() PaginatorOption {
	return func(p *Paginator) {
		p.singlePage = true
	}
}

// Paginator is a bidirectional, cursor-based source of a text's content.
// It owns the merged content tree of one reading session.
//
// Forward and backward requests may be in flight at the same time; at most
// one per direction. Every request is tagged with the tree generation and
// results that arrive after the session was reset or the tree replaced are
// discarded with domain.ErrStaleSession.
type Paginator struct {
	source     driven.ContentSource
	pageSize   int
	singlePage bool

	mu         sync.Mutex
	key        domain.SessionKey
	generation uint64
	revision   uint64
	sections   []domain.Section
	detail     domain.TextDetail
	bounds     domain.Boundaries
	loaded     bool
	pending    string
	nextAnchor string
	prevAnchor string
	hasNext    bool
	hasPrev    bool

	tokens    uint64
	inFlight  map[domain.Direction]uint64
	replacing uint64
	lastErr   error
}

// NewPaginator creates a paginator for the given session.
func NewPaginator(source driven.ContentSource, key domain.SessionKey, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		source:   source,
		key:      key,
		pageSize: domain.DefaultPageSize,
		inFlight: make(map[domain.Direction]uint64, 2),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the session the paginator serves.
func (p *Paginator) Key() domain.SessionKey {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.key
}

// PageSize returns the number of segments requested per page.
func (p *Paginator) PageSize() int {
	return p.pageSize
}

// Reset discards the merged tree and all boundary state and rebinds the
// paginator to key. Requests still in flight are discarded on arrival.
func (p *Paginator) Reset(key domain.SessionKey) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger.Debug("pagination: reset session %s -> %s", p.key, key)
	p.key = key
	p.generation++
	p.revision++
	p.sections = nil
	p.detail = domain.TextDetail{}
	p.bounds = domain.Boundaries{}
	p.loaded = false
	p.pending = ""
	p.nextAnchor, p.prevAnchor = "", ""
	p.hasNext, p.hasPrev = false, false
	p.inFlight = make(map[domain.Direction]uint64, 2)
	p.replacing = 0
	p.lastErr = nil
}

// Load fetches the initial page anchored at anchor (empty = start of text)
// and makes it the whole tree.
func (p *Paginator) Load(ctx context.Context, anchor string) error {
	return p.Replace(ctx, anchor)
}

// Replace fetches one page anchored at anchor and replaces the merged tree
// with it. On failure the existing tree is left intact. If several replaces
// overlap, only the latest one is committed.
func (p *Paginator) Replace(ctx context.Context, anchor string) error {
	p.mu.Lock()
	p.tokens++
	token := p.tokens
	p.replacing = token
	p.pending = anchor
	gen := p.generation
	req := p.key.Request(anchor, domain.DirectionNext, p.pageSize)
	p.mu.Unlock()

	logger.Debug("pagination: replace %s at anchor %q (size %d)", req.TextID, anchor, req.Size)
	page, err := p.source.FetchPage(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || p.replacing != token {
		logger.Debug("pagination: discarding superseded page at anchor %q", anchor)
		return domain.ErrStaleSession
	}
	p.replacing = 0

	if err != nil {
		p.lastErr = err
		if !domain.IsRetryable(err) {
			p.pending = ""
		}
		logger.Warn("pagination: load at anchor %q failed: %v", anchor, err)
		return fmt.Errorf("load page: %w", err)
	}

	p.generation++
	p.revision++
	p.inFlight = make(map[domain.Direction]uint64, 2)
	p.lastErr = nil
	p.loaded = true
	p.pending = ""
	p.sections = domain.CloneSections(page.Sections)
	p.detail = page.TextDetail
	p.hasNext, p.hasPrev = true, true
	p.nextAnchor, p.prevAnchor = "", ""
	p.applyForward(page)
	p.applyBackward(page)
	p.applySinglePage()

	logger.Debug("pagination: loaded %d segments (position %d/%d, next=%t, previous=%t)",
		domain.CountSegments(page.Sections), page.CurrentSegmentPosition, page.TotalSegments,
		p.hasNext, p.hasPrev)
	return nil
}

// FetchNext loads the page after the current tree and appends it.
// Returns domain.ErrBoundaryReached without a request when the end of the
// text was already reached. If nothing is loaded yet it retries the anchor
// of the last failed Load, or loads the start of the text.
func (p *Paginator) FetchNext(ctx context.Context) error {
	return p.fetch(ctx, domain.DirectionNext)
}

// FetchPrevious loads the page before the current tree and prepends it.
// Returns domain.ErrBoundaryReached without a request when the start of the
// text was already reached.
func (p *Paginator) FetchPrevious(ctx context.Context) error {
	return p.fetch(ctx, domain.DirectionPrevious)
}

func (p *Paginator) fetch(ctx context.Context, dir domain.Direction) error {
	p.mu.Lock()
	if !p.loaded {
		replacing, anchor := p.replacing != 0, p.pending
		p.mu.Unlock()
		if replacing {
			return domain.ErrFetchInProgress
		}
		return p.Load(ctx, anchor)
	}

	anchor, open := p.nextAnchor, p.hasNext
	if dir == domain.DirectionPrevious {
		anchor, open = p.prevAnchor, p.hasPrev
	}
	if !open {
		p.mu.Unlock()
		return domain.ErrBoundaryReached
	}
	if p.inFlight[dir] != 0 {
		p.mu.Unlock()
		return domain.ErrFetchInProgress
	}
	p.tokens++
	token := p.tokens
	p.inFlight[dir] = token
	gen := p.generation
	req := p.key.Request(anchor, dir, p.pageSize)
	p.mu.Unlock()

	logger.Debug("pagination: fetch %s page of %s at anchor %q", dir, req.TextID, anchor)
	page, err := p.source.FetchPage(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inFlight[dir] == token {
		delete(p.inFlight, dir)
	}
	if gen != p.generation {
		logger.Debug("pagination: discarding stale %s page at anchor %q", dir, anchor)
		return domain.ErrStaleSession
	}
	if err != nil {
		p.lastErr = err
		logger.Warn("pagination: %s page at anchor %q failed: %v", dir, anchor, err)
		return fmt.Errorf("fetch %s page: %w", dir, err)
	}

	p.lastErr = nil
	p.revision++
	if dir == domain.DirectionNext {
		p.sections = MergeSections(p.sections, page.Sections)
		p.applyForward(page)
	} else {
		p.sections = MergeSections(page.Sections, p.sections)
		p.applyBackward(page)
	}
	p.applySinglePage()
	return nil
}

// applyForward updates forward boundary state from a page (caller holds mu).
// An anchor that does not advance closes the direction.
func (p *Paginator) applyForward(page *domain.ContentPage) {
	p.bounds.Last = domain.PageBounds{Position: page.CurrentSegmentPosition, Total: page.TotalSegments}
	id, ok := domain.LastSegmentID(page.Sections)
	if !ok || page.AtEnd() || id == p.nextAnchor {
		p.hasNext = false
		p.nextAnchor = ""
		return
	}
	p.nextAnchor = id
}

// applyBackward updates backward boundary state from a page (caller holds mu).
func (p *Paginator) applyBackward(page *domain.ContentPage) {
	p.bounds.First = domain.PageBounds{Position: page.CurrentSegmentPosition, Total: page.TotalSegments}
	id, ok := domain.FirstSegmentID(page.Sections)
	if !ok || page.AtStart() || id == p.prevAnchor {
		p.hasPrev = false
		p.prevAnchor = ""
		return
	}
	p.prevAnchor = id
}

func (p *Paginator) applySinglePage() {
	if p.singlePage {
		p.hasNext, p.hasPrev = false, false
	}
}

// HasNext reports whether a forward page may still be fetched.
func (p *Paginator) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.loaded || p.hasNext
}

// HasPrevious reports whether a backward page may still be fetched.
func (p *Paginator) HasPrevious() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded && p.hasPrev
}

// NextAnchor returns the anchor the next forward request would use and
// false when the forward direction is closed.
func (p *Paginator) NextAnchor() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextAnchor, p.loaded && p.hasNext
}

// PreviousAnchor returns the anchor the next backward request would use and
// false when the backward direction is closed.
func (p *Paginator) PreviousAnchor() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prevAnchor, p.loaded && p.hasPrev
}

// Loaded reports whether an initial page has been committed.
func (p *Paginator) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Sections returns a deep copy of the merged content tree.
func (p *Paginator) Sections() []domain.Section {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.CloneSections(p.sections)
}

// Revision increases every time the merged tree changes.
func (p *Paginator) Revision() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

// TextDetail returns the document-level metadata of the last loaded page.
func (p *Paginator) TextDetail() domain.TextDetail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detail
}

// Boundaries returns the retained position/total of the outermost pages.
func (p *Paginator) Boundaries() domain.Boundaries {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bounds
}

// Status returns a snapshot of the loading state.
func (p *Paginator) Status() PaginationState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := PaginationState{
		LoadingNext:     p.inFlight[domain.DirectionNext] != 0,
		LoadingPrevious: p.inFlight[domain.DirectionPrevious] != 0,
		Replacing:       p.replacing != 0,
	}
	switch {
	case st.LoadingNext || st.LoadingPrevious || st.Replacing:
		st.Status = PaginationLoading
	case p.lastErr != nil:
		st.Status = PaginationError
		st.Err = p.lastErr
	default:
		st.Status = PaginationIdle
	}
	return st
}

// IsTerminal reports whether err ends pagination in a direction rather
// than being a failure worth surfacing.
func IsTerminal(err error) bool {
	return errors.Is(err, domain.ErrBoundaryReached)
}
