package email

import (
	"context"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

// Repository defines the data access contract for emails.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single email. Returns a NotFound error if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Email, error)

	// List returns one page of emails matching f ordered by updated_on DESC,
	// with the total match count. Bodies are not loaded.
	List(ctx context.Context, f filter.Email) ([]domain.Email, int, error)

	// Create inserts a new email. The ID is already set.
	Create(ctx context.Context, e *domain.Email) error

	// Update replaces the stored email with e. Last writer wins.
	Update(ctx context.Context, e *domain.Email) error

	// Delete removes an email. Returns a NotFound error if it doesn't exist.
	Delete(ctx context.Context, id string) error
}

// TemplateLookup resolves the template an email references.
type TemplateLookup interface {
	Get(ctx context.Context, id string) (*domain.Template, error)
}
