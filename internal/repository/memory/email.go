package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

// EmailRepo is an in-memory email repository.
type EmailRepo struct {
	mu     sync.RWMutex
	emails map[string]*domain.Email
}

// NewEmailRepo creates an empty email repository.
func NewEmailRepo() *EmailRepo {
	return &EmailRepo{emails: make(map[string]*domain.Email)}
}

func (r *EmailRepo) Get(_ context.Context, id string) (*domain.Email, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.emails[id]
	if !ok {
		return nil, domain.NotFound("Email")
	}
	return copyEmail(e), nil
}

func (r *EmailRepo) List(_ context.Context, f filter.Email) ([]domain.Email, int, error) {
	r.mu.RLock()
	var out []domain.Email
	for _, e := range r.emails {
		if !f.Matches(e) {
			continue
		}
		cp := copyEmail(e)
		cp.Body = nil
		out = append(out, *cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedOn.Equal(out[j].UpdatedOn) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedOn.After(out[j].UpdatedOn)
	})
	return paginate(out, f.Page), len(out), nil
}

func (r *EmailRepo) Create(_ context.Context, e *domain.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emails[e.ID] = copyEmail(e)
	return nil
}

func (r *EmailRepo) Update(_ context.Context, e *domain.Email) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.emails[e.ID]; !ok {
		return domain.NotFound("Email")
	}
	r.emails[e.ID] = copyEmail(e)
	return nil
}

func (r *EmailRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.emails[id]; !ok {
		return domain.NotFound("Email")
	}
	delete(r.emails, id)
	return nil
}

func copyEmail(e *domain.Email) *domain.Email {
	cp := *e
	if e.Body != nil {
		body := *e.Body
		cp.Body = &body
	}
	if e.SendTime != nil {
		t := *e.SendTime
		cp.SendTime = &t
	}
	cp.Parts = append([]domain.Part(nil), e.Parts...)
	return &cp
}
