package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

const fieldColumns = `id, name, type, label, options`

// FieldRepo implements field.Repository against PostgreSQL.
type FieldRepo struct{ db *sql.DB }

// NewFieldRepo creates a Postgres-backed field repository.
func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{db: db} }

func (r *FieldRepo) Get(ctx context.Context, id string) (*domain.Field, error) {
	f, err := scanField(r.db.QueryRowContext(ctx, `SELECT `+fieldColumns+` FROM fields WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Field")
	}
	if err != nil {
		return nil, fmt.Errorf("get field: %w", err)
	}
	return f, nil
}

func (r *FieldRepo) List(ctx context.Context, p filter.Page) ([]domain.Field, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fields`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fields: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fieldColumns+` FROM fields ORDER BY name, id LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	out := []domain.Field{}
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan field: %w", err)
		}
		out = append(out, *f)
	}
	return out, total, rows.Err()
}

func (r *FieldRepo) Create(ctx context.Context, f *domain.Field) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fields (`+fieldColumns+`, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, f.ID, f.Name, string(f.Type), f.Label, jsonb[json.RawMessage]{&f.Options})
	if err != nil {
		return fmt.Errorf("create field: %w", err)
	}
	return nil
}

func (r *FieldRepo) Update(ctx context.Context, f *domain.Field) error {
	a := &assignments{}
	a.add("name", f.Name)
	a.add("type", string(f.Type))
	a.add("label", f.Label)
	a.add("options", jsonb[json.RawMessage]{&f.Options})
	a.sets = append(a.sets, "updated_on = NOW()")

	q, args := a.update("fields", f.ID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update field: %w", err)
	}
	return checkAffected(res, domain.NotFound("Field"))
}

func (r *FieldRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fields WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete field: %w", err)
	}
	return checkAffected(res, domain.NotFound("Field"))
}

func scanField(s scanner) (*domain.Field, error) {
	f := &domain.Field{}
	var typ string
	if err := s.Scan(&f.ID, &f.Name, &typ, &f.Label, jsonb[json.RawMessage]{&f.Options}); err != nil {
		return nil, err
	}
	f.Type = domain.FieldType(typ)
	return f, nil
}
