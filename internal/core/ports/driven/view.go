package driven

import (
	"context"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// ViewIndex answers whether an id is currently rendered and scrolls to it.
// Section ids and segment ids share one index.
type ViewIndex interface {
	// Has reports whether an element tagged with id is rendered.
	Has(id string) bool

	// ScrollTo scrolls the element tagged with id into view.
	// Returns domain.ErrNotFound if the id is not rendered.
	ScrollTo(id string, opts domain.ScrollOptions) error
}

// Viewport exposes the geometry of the reading viewport.
type Viewport interface {
	// Bounds returns the visible range. ok is false before the viewport
	// exists (e.g. before the first layout).
	Bounds() (top, bottom float64, ok bool)

	// Elements returns the annotated elements in document order.
	Elements() []domain.ElementRect

	// OnScroll registers fn to run on every scroll or resize.
	// The returned function detaches fn.
	OnScroll(fn func()) (cancel func())
}

// RenderWaiter lets the view render a changed tree before the core looks
// at it again.
type RenderWaiter interface {
	// WaitForRender blocks until the view has rendered or ctx is done.
	WaitForRender(ctx context.Context) error
}
