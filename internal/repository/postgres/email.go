package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
)

const emailColumns = `id, subject, template_id, parts, body, dirty, sent, failed, pending,
	to_sub_edit, sub_edited, send_time, created_on, updated_on`

// Listings never load the body.
var emailListColumns = strings.Replace(emailColumns, "body,", "NULL AS body,", 1)

// EmailRepo implements email.Repository against PostgreSQL.
type EmailRepo struct{ db *sql.DB }

// NewEmailRepo creates a Postgres-backed email repository.
func NewEmailRepo(db *sql.DB) *EmailRepo { return &EmailRepo{db: db} }

func (r *EmailRepo) Get(ctx context.Context, id string) (*domain.Email, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+emailColumns+` FROM emails WHERE id = $1`, id)
	e, err := scanEmail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Email")
	}
	if err != nil {
		return nil, fmt.Errorf("get email: %w", err)
	}
	return e, nil
}

func (r *EmailRepo) List(ctx context.Context, f filter.Email) ([]domain.Email, int, error) {
	c := emailConditions(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emails`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emails: %w", err)
	}

	suffix, args := c.page(f.PerPage, f.Offset())
	q := `SELECT ` + emailListColumns + ` FROM emails` + c.clause() + ` ORDER BY updated_on DESC, id` + suffix
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	out := []domain.Email{}
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan email: %w", err)
		}
		out = append(out, *e)
	}
	return out, total, rows.Err()
}

func emailConditions(f filter.Email) *conditions {
	c := &conditions{}
	if len(f.Templates) > 0 {
		c.add("template_id = ANY(?)", pq.Array(f.Templates))
	}
	tristate(c, "dirty", f.Dirty)
	tristate(c, "sent", f.Sent)
	tristate(c, "to_sub_edit", f.ToSubEdit)
	tristate(c, "sub_edited", f.SubEdited)
	if f.ToSend {
		c.add("sent = false AND failed = false AND pending = false AND send_time IS NOT NULL AND send_time <= ?", f.Now)
	}
	return c
}

func tristate(c *conditions, col string, t filter.Tristate) {
	switch t {
	case filter.True:
		c.add(col+" = ?", true)
	case filter.False:
		c.add(col+" = ?", false)
	}
}

func (r *EmailRepo) Create(ctx context.Context, e *domain.Email) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO emails (`+emailColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, e.ID, e.Subject, e.Template, jsonb[[]domain.Part]{&e.Parts}, jsonb[*domain.Body]{&e.Body},
		e.Dirty, e.Sent, e.Failed, e.Pending, e.ToSubEdit, e.SubEdited, e.SendTime, e.CreatedOn, e.UpdatedOn)
	if err != nil {
		return fmt.Errorf("create email: %w", err)
	}
	return nil
}

// Update replaces every mutable column. CreatedOn is never rewritten.
func (r *EmailRepo) Update(ctx context.Context, e *domain.Email) error {
	a := &assignments{}
	a.add("subject", e.Subject)
	a.add("template_id", e.Template)
	a.add("parts", jsonb[[]domain.Part]{&e.Parts})
	a.add("body", jsonb[*domain.Body]{&e.Body})
	a.add("dirty", e.Dirty)
	a.add("sent", e.Sent)
	a.add("failed", e.Failed)
	a.add("pending", e.Pending)
	a.add("to_sub_edit", e.ToSubEdit)
	a.add("sub_edited", e.SubEdited)
	a.add("send_time", e.SendTime)
	a.add("updated_on", e.UpdatedOn)

	q, args := a.update("emails", e.ID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	return checkAffected(res, domain.NotFound("Email"))
}

func (r *EmailRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM emails WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	return checkAffected(res, domain.NotFound("Email"))
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanEmail(s scanner) (*domain.Email, error) {
	e := &domain.Email{}
	var sendTime sql.NullTime
	err := s.Scan(&e.ID, &e.Subject, &e.Template, jsonb[[]domain.Part]{&e.Parts}, jsonb[*domain.Body]{&e.Body},
		&e.Dirty, &e.Sent, &e.Failed, &e.Pending, &e.ToSubEdit, &e.SubEdited, &sendTime, &e.CreatedOn, &e.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if sendTime.Valid {
		t := sendTime.Time
		e.SendTime = &t
	}
	if e.Parts == nil {
		e.Parts = []domain.Part{}
	}
	return e, nil
}
