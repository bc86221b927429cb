package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/lectern/internal/core/domain"
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/logger"
)

// Default navigator settings.
const (
	DefaultSettleDelay           = 100 * time.Millisecond
	DefaultMaxAutoLoadIterations = 50
)

// PageLoader is the part of a Paginator the navigator drives.
type PageLoader interface {
	Replace(ctx context.Context, anchor string) error
	FetchNext(ctx context.Context) error
	HasNext() bool
}

// TargetResolver maps a section or segment id to the first segment a
// page must be anchored at to contain it.
type TargetResolver interface {
	FirstSegmentID(id string) (string, bool)
}

// NavigatorConfig bounds the load-until-found loop.
type NavigatorConfig struct {
	// SettleDelay is waited after each auto-loaded page before the view
	// is checked again.
	SettleDelay time.Duration

	// MaxAutoLoadIterations caps auto-loaded pages per navigation.
	MaxAutoLoadIterations int
}

// DefaultNavigatorConfig returns the default navigator settings.
func DefaultNavigatorConfig() NavigatorConfig {
	return NavigatorConfig{
		SettleDelay:           DefaultSettleDelay,
		MaxAutoLoadIterations: DefaultMaxAutoLoadIterations,
	}
}

// NavigatorState is the navigator's position in its state machine.
type NavigatorState int

// Navigator states.
const (
	NavigatorIdle NavigatorState = iota
	NavigatorResolving
	NavigatorLocalScroll
	NavigatorDirectFetch
	NavigatorAutoLoad
	NavigatorSettled
)

// String returns the string representation of the state.
func (s NavigatorState) String() string {
	switch s {
	case NavigatorIdle:
		return "idle"
	case NavigatorResolving:
		return "resolving"
	case NavigatorLocalScroll:
		return "local_scroll"
	case NavigatorDirectFetch:
		return "direct_fetch"
	case NavigatorAutoLoad:
		return "auto_load"
	case NavigatorSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithResolver enables the direct-fetch path.
func WithResolver(r TargetResolver) NavigatorOption {
	return func(n *Navigator) { n.resolver = r }
}

// WithLocationStore persists navigation targets for the session.
func WithLocationStore(s driven.LocationStore) NavigatorOption {
	return func(n *Navigator) { n.location = s }
}

// WithRenderWaiter lets the navigator wait for the view after a tree change.
func WithRenderWaiter(w driven.RenderWaiter) NavigatorOption {
	return func(n *Navigator) { n.render = w }
}

// WithNavigatorConfig overrides the default settings. A non-positive
// MaxAutoLoadIterations falls back to the default.
func WithNavigatorConfig(cfg NavigatorConfig) NavigatorOption {
	return func(n *Navigator) {
		if cfg.MaxAutoLoadIterations <= 0 {
			cfg.MaxAutoLoadIterations = DefaultMaxAutoLoadIterations
		}
		if cfg.SettleDelay < 0 {
			cfg.SettleDelay = 0
		}
		n.cfg = cfg
	}
}

// Navigator resolves a TOC selection into a scroll of the reading view.
//
// A target already rendered is scrolled to locally. Otherwise, with a
// resolver, the session tree is replaced by a page anchored at the target's
// first segment. Without one, forward pages are loaded until the target
// appears or pages run out. Each call supersedes any navigation still in
// progress.
type Navigator struct {
	key      domain.SessionKey
	view     driven.ViewIndex
	pages    PageLoader
	resolver TargetResolver
	location driven.LocationStore
	render   driven.RenderWaiter
	cfg      NavigatorConfig

	mu         sync.Mutex
	generation uint64
	state      NavigatorState
}

// NewNavigator creates a navigator for one reading session.
func NewNavigator(key domain.SessionKey, view driven.ViewIndex, pages PageLoader, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		key:   key,
		view:  view,
		pages: pages,
		cfg:   DefaultNavigatorConfig(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// State returns the state of the most recent navigation.
func (n *Navigator) State() NavigatorState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// NavigateToSection brings the section or segment target.ID into view.
//
// The returned error is reserved for failures: a failed fetch or scroll,
// context cancellation, or domain.ErrNavigationSuperseded. A target that
// cannot be reached is reported through NavigationResult.Err instead.
func (n *Navigator) NavigateToSection(ctx context.Context, target domain.NavigationTarget) (domain.NavigationResult, error) {
	res := domain.NavigationResult{TargetID: target.ID}
	if target.ID == "" {
		return res, fmt.Errorf("%w: navigation target id is required", domain.ErrInvalidInput)
	}

	gen, key, resolver := n.begin()
	defer n.finish(gen)

	logger.Debug("navigator: navigating %s to %q", key, target.ID)
	if target.Options.PersistInURL && n.location != nil {
		if err := n.location.ReplaceSectionID(ctx, key, target.ID); err != nil {
			logger.Warn("navigator: failed to persist location %q: %v", target.ID, err)
		}
	}

	if n.view.Has(target.ID) {
		n.setState(gen, NavigatorLocalScroll)
		res.Path = domain.PathLocalScroll
		return n.scroll(gen, res, target)
	}

	if resolver != nil {
		if anchor, ok := resolver.FirstSegmentID(target.ID); ok {
			return n.directFetch(ctx, gen, res, target, anchor)
		}
		logger.Debug("navigator: no anchor for %q, falling back to auto-load", target.ID)
	}
	return n.autoLoad(ctx, gen, res, target)
}

func (n *Navigator) directFetch(ctx context.Context, gen uint64, res domain.NavigationResult,
	target domain.NavigationTarget, anchor string) (domain.NavigationResult, error) {
	n.setState(gen, NavigatorDirectFetch)
	res.Path = domain.PathDirectFetch

	if err := n.pages.Replace(ctx, anchor); err != nil {
		if n.superseded(gen) {
			return res, domain.ErrNavigationSuperseded
		}
		return res, fmt.Errorf("navigate to %q: %w", target.ID, err)
	}
	res.PagesLoaded++
	if n.superseded(gen) {
		return res, domain.ErrNavigationSuperseded
	}

	if err := n.waitRender(ctx); err != nil {
		return res, fmt.Errorf("navigate to %q: %w", target.ID, err)
	}
	if n.superseded(gen) {
		return res, domain.ErrNavigationSuperseded
	}

	if !n.view.Has(target.ID) {
		logger.Debug("navigator: %q missing after direct fetch at %q", target.ID, anchor)
		res.Err = domain.ErrNavigationUnreachable
		return res, nil
	}
	return n.scroll(gen, res, target)
}

func (n *Navigator) autoLoad(ctx context.Context, gen uint64, res domain.NavigationResult,
	target domain.NavigationTarget) (domain.NavigationResult, error) {
	n.setState(gen, NavigatorAutoLoad)
	res.Path = domain.PathAutoLoad

	for i := 0; i < n.cfg.MaxAutoLoadIterations && n.pages.HasNext(); i++ {
		err := n.pages.FetchNext(ctx)
		if n.superseded(gen) {
			return res, domain.ErrNavigationSuperseded
		}
		switch {
		case err == nil:
			res.PagesLoaded++
		case errors.Is(err, domain.ErrBoundaryReached):
			// Nothing left to load.
		case errors.Is(err, domain.ErrFetchInProgress):
			// A scroll-driven fetch is running; give it time to land.
		default:
			return res, fmt.Errorf("navigate to %q: %w", target.ID, err)
		}

		if err := n.settle(ctx); err != nil {
			return res, fmt.Errorf("navigate to %q: %w", target.ID, err)
		}
		if n.superseded(gen) {
			return res, domain.ErrNavigationSuperseded
		}
		if n.view.Has(target.ID) {
			return n.scroll(gen, res, target)
		}
	}

	logger.Debug("navigator: %q not reachable after %d pages", target.ID, res.PagesLoaded)
	res.Err = domain.ErrNavigationUnreachable
	return res, nil
}

func (n *Navigator) scroll(gen uint64, res domain.NavigationResult, target domain.NavigationTarget) (domain.NavigationResult, error) {
	if err := n.view.ScrollTo(target.ID, target.Options.Scroll); err != nil {
		return res, fmt.Errorf("scroll to %q: %w", target.ID, err)
	}
	res.Found = true
	n.setState(gen, NavigatorSettled)
	return res, nil
}

// settle waits for the view to render and then for the settle delay.
func (n *Navigator) settle(ctx context.Context) error {
	if err := n.waitRender(ctx); err != nil {
		return err
	}
	if n.cfg.SettleDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(n.cfg.SettleDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (n *Navigator) waitRender(ctx context.Context) error {
	if n.render == nil {
		return ctx.Err()
	}
	return n.render.WaitForRender(ctx)
}

// Rebind points the navigator at a new session key and resolver. Any
// navigation still in progress returns domain.ErrNavigationSuperseded.
func (n *Navigator) Rebind(key domain.SessionKey, resolver TargetResolver) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.key = key
	n.resolver = resolver
	n.generation++
	n.state = NavigatorIdle
}

func (n *Navigator) begin() (uint64, domain.SessionKey, TargetResolver) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.generation++
	n.state = NavigatorResolving
	return n.generation, n.key, n.resolver
}

func (n *Navigator) finish(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.generation == gen {
		n.state = NavigatorIdle
	}
}

func (n *Navigator) setState(gen uint64, s NavigatorState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.generation == gen {
		n.state = s
	}
}

func (n *Navigator) superseded(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.generation != gen
}
