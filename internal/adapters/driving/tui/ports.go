// Package tui provides an interactive terminal reader for lectern.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/lectern/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
)

// Ports aggregates what the TUI drives.
type Ports struct {
	// Reader is the reading session shown in the content pane.
	Reader driving.Reader

	// Pane renders Reader's tree. The session must have been created with
	// Pane as its view.
	Pane *reader.Pane
}

// NewPorts creates a new Ports aggregate.
func NewPorts(r driving.Reader, pane *reader.Pane) *Ports {
	return &Ports{Reader: r, Pane: pane}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Reader == nil {
		return ErrMissingReader
	}
	if p.Pane == nil {
		return ErrMissingPane
	}
	return nil
}
