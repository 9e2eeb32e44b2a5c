package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

// TemplateRepo is an in-memory template repository.
type TemplateRepo struct {
	mu        sync.RWMutex
	templates map[string]*domain.Template
}

// NewTemplateRepo creates an empty template repository.
func NewTemplateRepo() *TemplateRepo {
	return &TemplateRepo{templates: make(map[string]*domain.Template)}
}

func (r *TemplateRepo) Get(_ context.Context, id string) (*domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, domain.NotFound("Template")
	}
	return copyTemplate(t), nil
}

func (r *TemplateRepo) List(_ context.Context, p filter.Page) ([]domain.Template, int, error) {
	r.mu.RLock()
	out := make([]domain.Template, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, *copyTemplate(t))
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

func (r *TemplateRepo) Create(_ context.Context, t *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.ID] = copyTemplate(t)
	return nil
}

func (r *TemplateRepo) Update(_ context.Context, t *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.ID]; !ok {
		return domain.NotFound("Template")
	}
	r.templates[t.ID] = copyTemplate(t)
	return nil
}

func (r *TemplateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return domain.NotFound("Template")
	}
	delete(r.templates, id)
	return nil
}

// copyTemplate copies t without its hydrated body.
func copyTemplate(t *domain.Template) *domain.Template {
	cp := *t
	cp.Body = ""
	cp.Fields = append([]domain.Field(nil), t.Fields...)
	return &cp
}
