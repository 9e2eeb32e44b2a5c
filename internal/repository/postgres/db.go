// Package postgres implements the service repositories against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ignite/newsletter-api/internal/filter"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Open connects to url and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// jsonb stores any JSON-encodable value in a JSONB column. Values that
// encode to null are written as NULL, and a NULL column leaves V untouched.
type jsonb[T any] struct{ V *T }

func (j jsonb[T]) Value() (driver.Value, error) {
	if j.V == nil {
		return nil, nil
	}
	b, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	return string(b), nil
}

func (j jsonb[T]) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("jsonb: unsupported source type %T", src)
	}
	return json.Unmarshal(b, j.V)
}

// assignments builds the SET list of an UPDATE with positional args.
type assignments struct {
	sets []string
	args []interface{}
}

func (a *assignments) add(col string, val interface{}) {
	a.args = append(a.args, val)
	a.sets = append(a.sets, fmt.Sprintf("%s = $%d", col, len(a.args)))
}

// update returns "UPDATE table SET ... WHERE id = $n" and its args.
func (a *assignments) update(table, id string) (string, []interface{}) {
	args := append(a.args, id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(a.sets, ", "), len(args))
	return q, args
}

// conditions builds an AND-joined WHERE clause with positional args.
type conditions struct {
	where []string
	args  []interface{}
}

// add appends a condition; each "?" in expr is replaced by the next
// positional placeholder.
func (c *conditions) add(expr string, vals ...interface{}) {
	for _, v := range vals {
		c.args = append(c.args, v)
		expr = strings.Replace(expr, "?", fmt.Sprintf("$%d", len(c.args)), 1)
	}
	c.where = append(c.where, expr)
}

func (c *conditions) clause() string {
	if len(c.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.where, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the suffix and args.
// Out-of-range values are clamped so Postgres never sees a negative bound.
func (c *conditions) page(limit, offset int) (string, []interface{}) {
	if limit < 1 {
		limit = filter.DefaultPerPage
	}
	if limit > filter.MaxPerPage {
		limit = filter.MaxPerPage
	}
	if offset < 0 {
		offset = 0
	}
	args := append(append([]interface{}{}, c.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
