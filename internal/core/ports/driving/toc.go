package driving

import (
	"context"

	"github.com/custodia-labs/lectern/internal/core/domain"
)

// TOCService loads tables of contents.
type TOCService interface {
	// Load returns the full table of contents of a text.
	Load(ctx context.Context, textID, language string) (*domain.TableOfContents, error)

	// Invalidate drops any cached table of contents of a text.
	Invalidate(textID string)
}
