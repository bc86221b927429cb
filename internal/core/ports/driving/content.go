package driving

import (
	"context"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// ContentService answers one-shot content queries (CLI, MCP).
type ContentService interface {
	// ReadPage fetches a single page of a text.
	ReadPage(ctx context.Context, req domain.PageRequest) (*domain.ContentPage, error)

	// Locate resolves a section or segment id to the content holding it,
	// its first segment and its ancestor path.
	Locate(ctx context.Context, textID, language, id string) (*domain.Location, error)
}
