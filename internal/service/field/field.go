// Package field manages the standalone library of template fields.
package field

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/strictjson"
)

const entity = "Field"

// ErrNameBlank is returned when a field has no name.
var ErrNameBlank = domain.Validation("name cannot be blank")

// Repository defines the data access contract for fields.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.Field, error)
	List(ctx context.Context, p filter.Page) ([]domain.Field, int, error)
	Create(ctx context.Context, f *domain.Field) error
	Update(ctx context.Context, f *domain.Field) error
	Delete(ctx context.Context, id string) error
}

// Patch is a typed partial field.
type Patch struct {
	Name    *string           `json:"name"`
	Type    *domain.FieldType `json:"type"`
	Label   *string           `json:"label"`
	Options *json.RawMessage  `json:"options"`
}

// DecodePatch parses a create or patch body, rejecting unknown keys.
func DecodePatch(data []byte) (*Patch, error) {
	var p Patch
	if err := strictjson.Decode(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Service implements field business logic.
type Service struct {
	repo Repository
}

// NewService creates a field service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, p filter.Page) ([]domain.Field, int, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Field, error) {
	if err := domain.CheckID(entity, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, p *Patch) (*domain.Field, error) {
	f := &domain.Field{ID: domain.NewID()}
	apply(f, p)
	if err := validate(f); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Patch(ctx context.Context, id string, p *Patch) (*domain.Field, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(f, p)
	if err := validate(f); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a field and returns what was deleted.
func (s *Service) Delete(ctx context.Context, id string) (*domain.Field, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return f, nil
}

func apply(f *domain.Field, p *Patch) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Label != nil {
		f.Label = *p.Label
	}
	if p.Options != nil {
		f.Options = *p.Options
	}
}

func validate(f *domain.Field) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameBlank
	}
	if !f.Type.Valid() {
		return domain.Validation("%s is not a valid field type", f.Type)
	}
	return nil
}
