package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

const entity = "Email"

// Service implements email business logic on top of a Repository.
// All public methods are safe for concurrent use if the underlying
// repository is concurrency-safe.
type Service struct {
	repo      Repository
	templates TemplateLookup
	now       func() time.Time
}

// NewService creates an email service.
func NewService(repo Repository, templates TemplateLookup) *Service {
	return &Service{repo: repo, templates: templates, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Now returns the service's current time.
func (s *Service) Now() time.Time { return s.now().UTC() }

// List returns one page of emails matching f.
func (s *Service) List(ctx context.Context, f filter.Email) ([]domain.Email, int, error) {
	return s.repo.List(ctx, f)
}

// Get returns a single email.
func (s *Service) Get(ctx context.Context, id string) (*domain.Email, error) {
	if err := domain.CheckID(entity, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create validates and persists a new email.
func (s *Service) Create(ctx context.Context, p *Patch) (*domain.Email, error) {
	e, err := New(p, s.Now())
	if err != nil {
		return nil, err
	}
	if err := s.checkTemplate(ctx, e.Template); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	logger.Info("email created", "email_id", e.ID, "template_id", e.Template)
	return e, nil
}

// Patch applies p to the stored email and persists the result.
func (s *Service) Patch(ctx context.Context, id string, p *Patch) (*domain.Email, error) {
	stored, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged, err := Apply(stored, p, s.Now())
	if err != nil {
		return nil, err
	}
	if p.Template != nil && *p.Template != stored.Template {
		if err := s.checkTemplate(ctx, merged.Template); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, merged); err != nil {
		return nil, err
	}
	logger.Info("email patched", "email_id", id, "keys", p.Keys())
	return merged, nil
}

// Delete removes an email and returns what was deleted. A row that vanished
// between lookup and delete counts as deleted.
func (s *Service) Delete(ctx context.Context, id string) (*domain.Email, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return e, nil
}

func (s *Service) checkTemplate(ctx context.Context, id string) error {
	if domain.CheckID("Template", id) != nil {
		return ErrTemplateAbsent
	}
	if _, err := s.templates.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTemplateAbsent
		}
		return fmt.Errorf("lookup template: %w", err)
	}
	return nil
}
