package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/service/user"
)

// UserRepo is an in-memory user repository. Emails are unique ignoring case.
type UserRepo struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepo creates an empty user repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User)}
}

func (r *UserRepo) Get(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("User")
	}
	return copyUser(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, domain.NotFound("User")
}

func (r *UserRepo) List(_ context.Context, p filter.Page) ([]domain.User, int, error) {
	r.mu.RLock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		cp := copyUser(u)
		cp.Permissions = nil
		out = append(out, *cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return paginate(out, p), len(out), nil
}

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, u.ID) {
		return user.ErrEmailExists
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.NotFound("User")
	}
	if r.emailTaken(u.Email, u.ID) {
		return user.ErrEmailExists
	}
	r.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.NotFound("User")
	}
	delete(r.users, id)
	return nil
}

// emailTaken must be called with the lock held.
func (r *UserRepo) emailTaken(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	if u.Permissions != nil {
		perms := *u.Permissions
		cp.Permissions = &perms
	}
	return &cp
}
