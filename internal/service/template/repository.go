package template

import (
	"context"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

// Repository defines the data access contract for templates.
// Implementations must be safe for concurrent use and never persist Body.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Template, error)
	List(ctx context.Context, p filter.Page) ([]domain.Template, int, error)
	Create(ctx context.Context, t *domain.Template) error
	Update(ctx context.Context, t *domain.Template) error
	Delete(ctx context.Context, id string) error
}

// SourceReader returns the contents of a template source.
type SourceReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// SourceCache is a SourceReader whose entries can be dropped when a template
// changes.
type SourceCache interface {
	SourceReader
	Invalidate(ctx context.Context, path string) error
}
