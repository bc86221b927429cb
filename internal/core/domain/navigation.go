package domain

// ScrollBehavior controls how a scroll-into-view is animated.
type ScrollBehavior string

// Available scroll behaviours.
const (
	// ScrollSmooth animates the scroll.
	ScrollSmooth ScrollBehavior = "smooth"

	// ScrollInstant jumps directly.
	ScrollInstant ScrollBehavior = "instant"
)

// ScrollAlign controls where the target lands in the viewport.
type ScrollAlign string

// Available alignments.
const (
	// AlignStart puts the target at the top (TOC clicks).
	AlignStart ScrollAlign = "start"

	// AlignCenter puts the target in the middle (TOC sync re-centering).
	AlignCenter ScrollAlign = "center"
)

// ScrollOptions are passed to the view when scrolling to an element.
type ScrollOptions struct {
	Behavior ScrollBehavior
	Align    ScrollAlign
}

// NavigationOptions tune a single navigation request.
type NavigationOptions struct {
	// Scroll controls the final scroll-into-view.
	Scroll ScrollOptions

	// PersistInURL writes the target into the shareable location.
	PersistInURL bool
}

// DefaultNavigationOptions returns the options used for TOC clicks.
func DefaultNavigationOptions() NavigationOptions {
	return NavigationOptions{
		Scroll:       ScrollOptions{Behavior: ScrollSmooth, Align: AlignStart},
		PersistInURL: true,
	}
}

// NavigationTarget is a requested section id or segment id.
type NavigationTarget struct {
	// ID is a section id or a segment id.
	ID string

	// Options tune the navigation.
	Options NavigationOptions
}

// NavigationPath identifies how a navigation was resolved.
type NavigationPath string

// Available navigation paths.
const (
	// PathNone means resolution did not get past Resolving.
	PathNone NavigationPath = ""

	// PathLocalScroll means the target was already rendered.
	PathLocalScroll NavigationPath = "local_scroll"

	// PathDirectFetch means the cache was replaced with a page anchored at
	// the target's first segment.
	PathDirectFetch NavigationPath = "direct_fetch"

	// PathAutoLoad means forward pages were loaded until the target appeared.
	PathAutoLoad NavigationPath = "auto_load"
)

// NavigationResult reports the outcome of a navigation.
type NavigationResult struct {
	// TargetID is the requested id.
	TargetID string

	// Path is how the navigation was resolved.
	Path NavigationPath

	// Found is true when the target was scrolled into view.
	Found bool

	// PagesLoaded counts pages fetched by this navigation.
	PagesLoaded int

	// Err carries a reported, non-fatal outcome such as
	// ErrNavigationUnreachable.
	Err error
}
