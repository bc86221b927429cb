package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
	"github.com/custodia-labs/lectern/internal/logger"
)

// Ensure ReadingSession implements the interface.
var _ driving.Reader = (*ReadingSession)(nil)

// SessionView is the rendered side of a reading pane.
type SessionView struct {
	// Index resolves rendered ids and scrolls to them. Required.
	Index driven.ViewIndex

	// Viewport drives active-section detection. May be nil.
	Viewport driven.Viewport

	// Render waits for the pane to re-render after a tree change. May be nil.
	Render driven.RenderWaiter
}

// SessionOption configures a ReadingSession.
type SessionOption func(*ReadingSession)

// WithSessionTOC loads the text's TOC on open and enables direct fetch
// navigation, TOC expansion sync and position restore.
func WithSessionTOC(toc driving.TOCService) SessionOption {
	return func(s *ReadingSession) { s.tocs = toc }
}

// WithSessionLocation persists and restores the navigated section.
func WithSessionLocation(store driven.LocationStore) SessionOption {
	return func(s *ReadingSession) { s.location = store }
}

// WithSessionNavigator overrides navigator settings.
func WithSessionNavigator(cfg NavigatorConfig) SessionOption {
	return func(s *ReadingSession) { s.navCfg = cfg }
}

// WithSessionThrottle throttles active-section detection.
func WithSessionThrottle(interval time.Duration) SessionOption {
	return func(s *ReadingSession) { s.throttle = interval }
}

// WithSessionSinglePage opens every session in single-page mode.
func WithSessionSinglePage() SessionOption {
	return func(s *ReadingSession) { s.singlePage = true }
}

// ReadingSession owns the content tree, active cursor, expansion state and
// navigator of one reading pane. Sessions share nothing mutable.
type ReadingSession struct {
	id         string
	source     driven.ContentSource
	prefs      domain.Preferences
	view       SessionView
	tocs       driving.TOCService
	location   driven.LocationStore
	navCfg     NavigatorConfig
	throttle   time.Duration
	singlePage bool

	mu        sync.Mutex
	key       domain.SessionKey
	pages     *Paginator
	expansion *ExpansionManager
	detector  *ActiveSectionDetector
	navigator *Navigator
	toc       *domain.TableOfContents
	onActive  func(id string)
}

// NewReadingSession creates an unopened session bound to view.
func NewReadingSession(source driven.ContentSource, prefs domain.Preferences, view SessionView, opts ...SessionOption) *ReadingSession {
	s := &ReadingSession{
		id:        uuid.New().String(),
		source:    source,
		prefs:     prefs,
		view:      view,
		navCfg:    DefaultNavigatorConfig(),
		expansion: NewExpansionManager(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.detector = NewActiveSectionDetector(view.Viewport, s.handleActive, WithThrottle(s.throttle))
	return s
}

// ID returns the session's unique identifier.
func (s *ReadingSession) ID() string {
	return s.id
}

// Key returns the open session key, or the zero key before Open.
func (s *ReadingSession) Key() domain.SessionKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// OnActiveChange registers fn to run when the active element changes.
func (s *ReadingSession) OnActiveChange(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onActive = fn
}

// Open loads key at anchor. Reopening the current key replaces the tree
// but keeps expansion state and the cursor; a different key starts from
// scratch. With an empty anchor, a persisted location for key is restored
// when available.
func (s *ReadingSession) Open(ctx context.Context, key domain.SessionKey, anchor string) error {
	if key.TextID == "" {
		return fmt.Errorf("%w: text id is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	pages := s.rebindLocked(key)
	s.mu.Unlock()

	toc := s.loadTOC(ctx, key)

	s.mu.Lock()
	if s.key != key {
		s.mu.Unlock()
		return domain.ErrStaleSession
	}
	s.toc = toc
	if s.navigator == nil {
		s.navigator = s.newNavigatorLocked(key, toc)
	} else {
		s.navigator.Rebind(key, resolverFor(toc))
	}
	s.mu.Unlock()

	if anchor == "" {
		anchor = s.restoreAnchor(ctx, key, toc)
	}
	logger.Debug("session %s: opening %s at %q", s.id, key, anchor)
	if err := pages.Load(ctx, anchor); err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	return nil
}

// rebindLocked switches to key, discarding state when it changed.
func (s *ReadingSession) rebindLocked(key domain.SessionKey) *Paginator {
	if s.pages != nil && s.key == key {
		return s.pages
	}

	opts := []PaginatorOption{WithPageSize(s.prefs.PageSize)}
	if s.singlePage {
		opts = append(opts, WithSinglePage())
	}
	if s.pages == nil {
		s.pages = NewPaginator(s.source, key, opts...)
	} else {
		logger.Debug("session %s: switching %s -> %s", s.id, s.key, key)
		s.pages.Reset(key)
	}
	if s.navigator != nil {
		s.navigator.Rebind(key, nil)
	}
	s.key = key
	s.toc = nil
	s.expansion.Reset()
	s.detector.Reset()
	return s.pages
}

func (s *ReadingSession) loadTOC(ctx context.Context, key domain.SessionKey) *domain.TableOfContents {
	if s.tocs == nil {
		return nil
	}
	toc, err := s.tocs.Load(ctx, key.TextID, s.prefs.Language)
	if err != nil {
		logger.Warn("session %s: table of contents unavailable: %v", s.id, err)
		return nil
	}
	return toc
}

func (s *ReadingSession) newNavigatorLocked(key domain.SessionKey, toc *domain.TableOfContents) *Navigator {
	opts := []NavigatorOption{WithNavigatorConfig(s.navCfg)}
	if r := resolverFor(toc); r != nil {
		opts = append(opts, WithResolver(r))
	}
	if s.location != nil {
		opts = append(opts, WithLocationStore(s.location))
	}
	if s.view.Render != nil {
		opts = append(opts, WithRenderWaiter(s.view.Render))
	}
	return NewNavigator(key, s.view.Index, s.pages, opts...)
}

// resolverFor returns a resolver over toc, or nil without one.
func resolverFor(toc *domain.TableOfContents) TargetResolver {
	if toc == nil {
		return nil
	}
	return tocResolver{toc: toc}
}

// restoreAnchor maps a persisted section id to a page anchor.
func (s *ReadingSession) restoreAnchor(ctx context.Context, key domain.SessionKey, toc *domain.TableOfContents) string {
	if s.location == nil || toc == nil {
		return ""
	}
	id, err := s.location.SectionID(ctx, key)
	if err != nil || id == "" {
		return ""
	}
	anchor, ok := tocResolver{toc: toc}.FirstSegmentID(id)
	if !ok {
		return ""
	}
	logger.Debug("session %s: restoring position %q", s.id, id)
	return anchor
}

// Mount starts active-section detection once the view has been laid out.
func (s *ReadingSession) Mount() {
	s.detector.Mount()
}

// Close stops active-section detection.
func (s *ReadingSession) Close() {
	s.detector.Unmount()
}

// Navigate brings target into view.
func (s *ReadingSession) Navigate(ctx context.Context, target domain.NavigationTarget) (domain.NavigationResult, error) {
	s.mu.Lock()
	nav := s.navigator
	s.mu.Unlock()
	if nav == nil {
		return domain.NavigationResult{TargetID: target.ID}, fmt.Errorf("%w: session not open", domain.ErrInvalidInput)
	}

	res, err := nav.NavigateToSection(ctx, target)
	if err == nil && res.Found {
		s.detector.Recompute()
	}
	return res, err
}

// NavigatorState returns the state of the current navigator.
func (s *ReadingSession) NavigatorState() NavigatorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.navigator == nil {
		return NavigatorIdle
	}
	return s.navigator.State()
}

func (s *ReadingSession) paginator() *Paginator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages
}

// FetchNext loads the next page.
func (s *ReadingSession) FetchNext(ctx context.Context) error {
	p := s.paginator()
	if p == nil {
		return fmt.Errorf("%w: session not open", domain.ErrInvalidInput)
	}
	return p.FetchNext(ctx)
}

// FetchPrevious loads the previous page.
func (s *ReadingSession) FetchPrevious(ctx context.Context) error {
	p := s.paginator()
	if p == nil {
		return fmt.Errorf("%w: session not open", domain.ErrInvalidInput)
	}
	return p.FetchPrevious(ctx)
}

// HasNext reports whether more forward pages exist.
func (s *ReadingSession) HasNext() bool {
	p := s.paginator()
	return p != nil && p.HasNext()
}

// HasPrevious reports whether more backward pages exist.
func (s *ReadingSession) HasPrevious() bool {
	p := s.paginator()
	return p != nil && p.HasPrevious()
}

// Sections returns a copy of the merged content tree.
func (s *ReadingSession) Sections() []domain.Section {
	p := s.paginator()
	if p == nil {
		return nil
	}
	return p.Sections()
}

// Revision increases whenever the content tree changes.
func (s *ReadingSession) Revision() uint64 {
	p := s.paginator()
	if p == nil {
		return 0
	}
	return p.Revision()
}

// Status returns the pagination loading state.
func (s *ReadingSession) Status() PaginationState {
	p := s.paginator()
	if p == nil {
		return PaginationState{}
	}
	return p.Status()
}

// TextDetail returns document-level metadata.
func (s *ReadingSession) TextDetail() domain.TextDetail {
	p := s.paginator()
	if p == nil {
		return domain.TextDetail{}
	}
	return p.TextDetail()
}

// TableOfContents returns the session's TOC, or nil.
func (s *ReadingSession) TableOfContents() *domain.TableOfContents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.toc
}

// Active returns the id of the most visible element.
func (s *ReadingSession) Active() string {
	return s.detector.Active()
}

// Detector exposes the session's active-section detector.
func (s *ReadingSession) Detector() *ActiveSectionDetector {
	return s.detector
}

// Expanded returns a copy of the TOC expansion state.
func (s *ReadingSession) Expanded() map[string]bool {
	return s.expansion.Snapshot()
}

// ToggleExpanded flips a TOC node.
func (s *ReadingSession) ToggleExpanded(id string) bool {
	return s.expansion.Toggle(id)
}

// Expansion exposes the session's expansion manager.
func (s *ReadingSession) Expansion() *ExpansionManager {
	return s.expansion
}

// handleActive keeps the TOC expanded down to the active element.
func (s *ReadingSession) handleActive(id string) {
	s.mu.Lock()
	toc, fn := s.toc, s.onActive
	s.mu.Unlock()

	if toc != nil {
		s.expansion.SyncActive(toc.Sections(), id)
	}
	if fn != nil {
		fn(id)
	}
}
