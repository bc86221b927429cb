package driving

import (
	"context"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// Reader is one reading pane's session: a merged content tree with its
// active cursor, TOC expansion state and navigation.
type Reader interface {
	// ID identifies the session in logs.
	ID() string

	// Key returns the open session key.
	Key() domain.SessionKey

	// Open starts a session at anchor. Opening a different key discards
	// the tree, expansion state and cursor of the previous one.
	Open(ctx context.Context, key domain.SessionKey, anchor string) error

	// FetchNext loads the next page.
	FetchNext(ctx context.Context) error

	// FetchPrevious loads the previous page.
	FetchPrevious(ctx context.Context) error

	// HasNext reports whether more forward pages exist.
	HasNext() bool

	// HasPrevious reports whether more backward pages exist.
	HasPrevious() bool

	// Sections returns a copy of the merged content tree.
	Sections() []domain.Section

	// TextDetail returns document-level metadata.
	TextDetail() domain.TextDetail

	// TableOfContents returns the session's TOC, or nil if unavailable.
	TableOfContents() *domain.TableOfContents

	// Navigate brings a section or segment into view.
	Navigate(ctx context.Context, target domain.NavigationTarget) (domain.NavigationResult, error)

	// Active returns the id of the most visible element.
	Active() string

	// Expanded returns a copy of the TOC expansion state.
	Expanded() map[string]bool

	// ToggleExpanded flips a TOC node.
	ToggleExpanded(id string) bool

	// OnActiveChange registers fn to run when the active element changes.
	// fn may run on any goroutine; nil removes it.
	OnActiveChange(fn func(id string))

	// Mount starts tracking the active element once the view is laid out.
	Mount()

	// Close detaches the session from its view.
	Close()
}
