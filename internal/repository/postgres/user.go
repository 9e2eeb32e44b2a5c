package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/service/user"
)

const userColumns = `id, email, permissions, created_on, updated_on`

// UserRepo implements user.Repository against PostgreSQL. Emails are unique
// case-insensitively via the users_email_lower index.
type UserRepo struct{ db *sql.DB }

// NewUserRepo creates a Postgres-backed user repository.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = $1`, strings.ToLower(email))
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List omits permissions.
func (r *UserRepo) List(ctx context.Context, p filter.Page) ([]domain.User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, NULL AS permissions, created_on, updated_on FROM users ORDER BY email, id LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, *u)
	}
	return out, total, rows.Err()
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Email, jsonb[*domain.Permissions]{&u.Permissions}, u.CreatedOn, u.UpdatedOn)
	if isUniqueViolation(err) {
		return user.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	a := &assignments{}
	a.add("email", u.Email)
	a.add("permissions", jsonb[*domain.Permissions]{&u.Permissions})
	a.add("updated_on", u.UpdatedOn)

	q, args := a.update("users", u.ID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if isUniqueViolation(err) {
		return user.ErrEmailExists
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return checkAffected(res, domain.NotFound("User"))
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return checkAffected(res, domain.NotFound("User"))
}

func scanUser(s scanner) (*domain.User, error) {
	u := &domain.User{}
	if err := s.Scan(&u.ID, &u.Email, jsonb[*domain.Permissions]{&u.Permissions}, &u.CreatedOn, &u.UpdatedOn); err != nil {
		return nil, err
	}
	return u, nil
}
