package tui

import "errors"

// ErrMissingReader is returned when no reading session is provided.
var ErrMissingReader = errors.New("tui: reader is required")

// ErrMissingPane is returned when no reading pane is provided.
var ErrMissingPane = errors.New("tui: reading pane is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
