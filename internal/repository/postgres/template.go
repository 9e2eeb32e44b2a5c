package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

const templateColumns = `id, name, path, label_color, campaign_param, from_address, from_name, list, fields`

// TemplateRepo implements template.Repository against PostgreSQL. Bodies are
// never stored; they come from the template source.
type TemplateRepo struct{ db *sql.DB }

// NewTemplateRepo creates a Postgres-backed template repository.
func NewTemplateRepo(db *sql.DB) *TemplateRepo { return &TemplateRepo{db: db} }

func (r *TemplateRepo) Get(ctx context.Context, id string) (*domain.Template, error) {
	t, err := scanTemplate(r.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Template")
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (r *TemplateRepo) List(ctx context.Context, p filter.Page) ([]domain.Template, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates ORDER BY name, id LIMIT $1 OFFSET $2`,
		p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

func (r *TemplateRepo) Create(ctx context.Context, t *domain.Template) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO templates (`+templateColumns+`, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, t.ID, t.Name, t.Path, t.LabelColor, t.CampaignParam, t.From.Address, t.From.Name, t.List,
		jsonb[[]domain.Field]{&t.Fields})
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *TemplateRepo) Update(ctx context.Context, t *domain.Template) error {
	a := &assignments{}
	a.add("name", t.Name)
	a.add("path", t.Path)
	a.add("label_color", t.LabelColor)
	a.add("campaign_param", t.CampaignParam)
	a.add("from_address", t.From.Address)
	a.add("from_name", t.From.Name)
	a.add("list", t.List)
	a.add("fields", jsonb[[]domain.Field]{&t.Fields})
	a.sets = append(a.sets, "updated_on = NOW()")

	q, args := a.update("templates", t.ID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return checkAffected(res, domain.NotFound("Template"))
}

func (r *TemplateRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return checkAffected(res, domain.NotFound("Template"))
}

func scanTemplate(s scanner) (*domain.Template, error) {
	t := &domain.Template{}
	err := s.Scan(&t.ID, &t.Name, &t.Path, &t.LabelColor, &t.CampaignParam,
		&t.From.Address, &t.From.Name, &t.List, jsonb[[]domain.Field]{&t.Fields})
	if err != nil {
		return nil, err
	}
	if t.Fields == nil {
		t.Fields = []domain.Field{}
	}
	return t, nil
}
