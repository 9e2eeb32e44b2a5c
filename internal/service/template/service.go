package template

import (
	"context"
	"errors"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

const entity = "Template"

// Service implements template business logic.
type Service struct {
	repo    Repository
	files   SourceReader
	sources SourceCache
}

// NewService creates a template service. files is read directly to validate
// writes; sources serves hydrated bodies on read.
func NewService(repo Repository, files SourceReader, sources SourceCache) *Service {
	return &Service{repo: repo, files: files, sources: sources}
}

// List returns one page of templates. Bodies are not hydrated.
func (s *Service) List(ctx context.Context, p filter.Page) ([]domain.Template, int, error) {
	return s.repo.List(ctx, p)
}

// Get returns a template with Body read from its source. An unreadable
// source is logged and Body left empty.
func (s *Service) Get(ctx context.Context, id string) (*domain.Template, error) {
	t, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := s.sources.Read(ctx, t.Path)
	if err != nil {
		logger.Warn("template source unreadable", "template_id", id, "path", t.Path, "error", err)
		return t, nil
	}
	t.Body = body
	return t, nil
}

// Create validates, checks the source is readable, and persists.
func (s *Service) Create(ctx context.Context, p *Patch) (*domain.Template, error) {
	t := &domain.Template{ID: domain.NewID(), Fields: []domain.Field{}}
	p.apply(t)
	if err := s.checkWrite(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	logger.Info("template created", "template_id", t.ID, "path", t.Path)
	return t, nil
}

// Patch merges p into the stored template. The source is re-read before the
// write; nothing is stored if it cannot be read.
func (s *Service) Patch(ctx context.Context, id string, p *Patch) (*domain.Template, error) {
	t, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPath := t.Path

	p.apply(t)
	if err := s.checkWrite(ctx, t); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, oldPath)
	if t.Path != oldPath {
		s.invalidate(ctx, t.Path)
	}
	return t, nil
}

// Delete removes a template and returns what was deleted.
func (s *Service) Delete(ctx context.Context, id string) (*domain.Template, error) {
	t, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	s.invalidate(ctx, t.Path)
	return t, nil
}

func (s *Service) lookup(ctx context.Context, id string) (*domain.Template, error) {
	if err := domain.CheckID(entity, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) checkWrite(ctx context.Context, t *domain.Template) error {
	if err := validate(t); err != nil {
		return err
	}
	if _, err := s.files.Read(ctx, t.Path); err != nil {
		logger.Warn("template source check failed", "path", t.Path, "error", err)
		return domain.SourceUnreadable()
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, path string) {
	if err := s.sources.Invalidate(ctx, path); err != nil {
		logger.Warn("template cache invalidate failed", "path", path, "error", err)
	}
}
