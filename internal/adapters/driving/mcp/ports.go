package mcp

import (
	"github.com/custodia-labs/lectern/internal/core/ports/driven"
	"github.com/custodia-labs/lectern/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Content reads pages and resolves ids.
	Content driving.ContentService

	// TOC loads tables of contents.
	TOC driving.TOCService

	// Preferences supplies default page size and language. Optional.
	Preferences driving.PreferencesService

	// History lists saved reading positions. Optional.
	History driven.LocationHistory
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Content == nil {
		return ErrMissingContentService
	}
	if p.TOC == nil {
		return ErrMissingTOCService
	}
	return nil
}
