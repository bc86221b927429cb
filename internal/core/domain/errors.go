package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent reading and navigation failures.
// These are distinct from adapter-specific errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Pagination Errors.

	// ErrNetwork indicates a transient transport failure.
	// The same request may be retried with the same anchor.
	ErrNetwork = errors.New("network error")

	// ErrBoundaryReached is not a failure. It signals that no further
	// page exists in the requested direction.
	ErrBoundaryReached = errors.New("boundary reached")

	// ErrFetchInProgress indicates a page request in the same direction
	// is already in flight.
	ErrFetchInProgress = errors.New("fetch already in progress")

	// ErrStaleSession indicates a page arrived after its reading session
	// was torn down. The page is discarded.
	ErrStaleSession = errors.New("stale reading session")

	// Navigation Errors.

	// ErrNavigationUnreachable indicates the target could not be found
	// after all available pages were loaded.
	ErrNavigationUnreachable = errors.New("navigation target not reachable")

	// ErrNavigationSuperseded indicates a newer navigation started while
	// this one was suspended.
	ErrNavigationSuperseded = errors.New("navigation superseded")
)

// NetworkError wraps a transient failure while talking to the text API.
type NetworkError struct {
	// Op is the operation that failed (e.g. "fetch page").
	Op string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Err is the underlying cause.
	Err error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: network error (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is reports ErrNetwork as a match so callers can use errors.Is.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NotFoundError indicates the anchor of a page request can no longer be
// resolved. It is fatal for that request only.
type NotFoundError struct {
	// Anchor is the segment id that could not be resolved.
	Anchor string

	// Resource names what was looked up (e.g. "segment", "text").
	Resource string
}

func (e *NotFoundError) Error() string {
	resource := e.Resource
	if resource == "" {
		resource = "segment"
	}
	if e.Anchor == "" {
		return resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", resource, e.Anchor)
}

// Is reports ErrNotFound as a match so callers can use errors.Is.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsRetryable reports whether err is a transient failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork)
}
