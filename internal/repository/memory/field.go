package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

// FieldRepo is an in-memory field repository.
type FieldRepo struct {
	mu     sync.RWMutex
	fields map[string]domain.Field
}

// NewFieldRepo creates an empty field repository.
func NewFieldRepo() *FieldRepo {
	return &FieldRepo{fields: make(map[string]domain.Field)}
}

func (r *FieldRepo) Get(_ context.Context, id string) (*domain.Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fields[id]
	if !ok {
		return nil, domain.NotFound("Field")
	}
	return &f, nil
}

func (r *FieldRepo) List(_ context.Context, p filter.Page) ([]domain.Field, int, error) {
	r.mu.RLock()
	out := make([]domain.Field, 0, len(r.fields))
	for _, f := range r.fields {
		out = append(out, f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, p), len(out), nil
}

func (r *FieldRepo) Create(_ context.Context, f *domain.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[f.ID] = *f
	return nil
}

func (r *FieldRepo) Update(_ context.Context, f *domain.Field) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[f.ID]; !ok {
		return domain.NotFound("Field")
	}
	r.fields[f.ID] = *f
	return nil
}

func (r *FieldRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fields[id]; !ok {
		return domain.NotFound("Field")
	}
	delete(r.fields, id)
	return nil
}
