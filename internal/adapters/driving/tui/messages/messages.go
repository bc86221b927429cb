// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/lectern/internal/core/domain"
)

// SessionOpened is sent when the reading session finished its first load.
type SessionOpened struct {
	Err error
}

// PageLoaded is sent when a page fetch in Direction finished.
type PageLoaded struct {
	Direction domain.Direction
	Err       error
}

// NavigateRequested asks the app to bring ID into view.
type NavigateRequested struct {
	ID string
}

// NavigationDone carries the outcome of a navigation. Seq identifies the
// request; only the latest one clears the navigating state.
type NavigationDone struct {
	Seq    uint64
	Result domain.NavigationResult
	Err    error
}

// TreeChanged is sent when the content tree was re-laid out outside the
// UI goroutine and the screen should be redrawn.
type TreeChanged struct{}

// ActiveChanged is sent when the active element moved outside key or
// mouse handling, such as a trailing throttled recompute.
type ActiveChanged struct {
	ID string
}

// ErrorOccurred carries an error to display.
type ErrorOccurred struct {
	Err error
}

// Focus identifies which pane receives key input.
type Focus int

const (
	// FocusContent is the reading pane.
	FocusContent Focus = iota
	// FocusTOC is the table of contents pane.
	FocusTOC
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusContent:
		return "content"
	case FocusTOC:
		return "toc"
	default:
		return "unknown"
	}
}
