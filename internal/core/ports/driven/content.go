package driven

import (
	"context"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// ContentSource fetches bounded windows of a text's content.
type ContentSource interface {
	// FetchPage returns the page anchored at req.Anchor in req.Direction.
	// Fails with *domain.NetworkError (retryable) or *domain.NotFoundError
	// when the anchor can no longer be resolved.
	FetchPage(ctx context.Context, req domain.PageRequest) (*domain.ContentPage, error)
}

// TOCSource fetches the structural skeleton of a text.
type TOCSource interface {
	// FetchContents returns one limit/skip window of the text's contents.
	FetchContents(ctx context.Context, req domain.TOCRequest) (*domain.TOCPage, error)
}
