// Package user manages the accounts allowed to sign in to the admin tool.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
	"github.com/ignite/newsletter-api/internal/pkg/strictjson"
)

const entity = "User"

// Validation errors for user writes.
var (
	ErrEmailBlank  = domain.Validation("email cannot be blank")
	ErrEmailExists = domain.Validation("email already exists")
)

// Repository defines the data access contract for users. Create and Update
// return ErrEmailExists when the email is taken, ignoring case.
type Repository interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, p filter.Page) ([]domain.User, int, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

// Patch is a typed partial user.
type Patch struct {
	Email       *string             `json:"email"`
	Permissions *domain.Permissions `json:"permissions"`
}

// DecodePatch parses a create or patch body, rejecting unknown keys.
func DecodePatch(data []byte) (*Patch, error) {
	var p Patch
	if err := strictjson.Decode(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Service implements user business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of users without their permissions.
func (s *Service) List(ctx context.Context, p filter.Page) ([]domain.User, int, error) {
	return s.repo.List(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := domain.CheckID(entity, id); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// GetByEmail looks a user up by address, ignoring case.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, normalize(email))
}

func (s *Service) Create(ctx context.Context, p *Patch) (*domain.User, error) {
	now := s.now().UTC()
	u := &domain.User{
		ID:          domain.NewID(),
		Permissions: &domain.Permissions{},
		CreatedOn:   now,
		UpdatedOn:   now,
	}
	if err := apply(u, p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("user created", "user_id", u.ID, "email", u.Email)
	return u, nil
}

func (s *Service) Patch(ctx context.Context, id string, p *Patch) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(u, p); err != nil {
		return nil, err
	}
	u.UpdatedOn = s.now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes a user and returns what was deleted.
func (s *Service) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	logger.Info("user deleted", "user_id", id, "email", u.Email)
	return u, nil
}

func apply(u *domain.User, p *Patch) error {
	if p.Email != nil {
		u.Email = normalize(*p.Email)
	}
	if u.Email == "" {
		return ErrEmailBlank
	}
	if p.Permissions != nil {
		perms := *p.Permissions
		u.Permissions = &perms
	}
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
