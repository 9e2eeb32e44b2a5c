package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/service/user"
)

const (
	emailID = "0b7d7b36-61f6-4d1e-9d41-6e3c0a0c0b01"
	tplID   = "6f1c0b4e-8b0a-4a53-9d8e-2a7c1f1d0a01"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var emailCols = []string{"id", "subject", "template_id", "parts", "body", "dirty", "sent", "failed", "pending",
	"to_sub_edit", "sub_edited", "send_time", "created_on", "updated_on"}

func TestJSONBRoundTrip(t *testing.T) {
	var parts []domain.Part
	require.NoError(t, jsonb[[]domain.Part]{&parts}.Scan([]byte(`[{"name":"intro","value":"hi"}]`)))
	require.Len(t, parts, 1)
	assert.Equal(t, "intro", parts[0].Name)

	var body *domain.Body
	require.NoError(t, jsonb[*domain.Body]{&body}.Scan(nil))
	assert.Nil(t, body)

	v, err := jsonb[*domain.Body]{&body}.Value()
	require.NoError(t, err)
	assert.Nil(t, v, "nil body is stored as NULL")

	assert.Error(t, jsonb[*domain.Body]{&body}.Scan(42))
}

func TestEmailGet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEmailRepo(db)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM emails WHERE id = $1")).
		WithArgs(emailID).
		WillReturnRows(sqlmock.NewRows(emailCols).AddRow(
			emailID, "Hello", tplID, []byte(`[{"name":"intro","value":"hi"}]`), []byte(`{"html":"<p>x</p>","plain":"x"}`),
			true, false, false, false, false, false, now, now, now,
		))

	e, err := repo.Get(context.Background(), emailID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", e.Subject)
	assert.Equal(t, tplID, e.Template)
	require.NotNil(t, e.Body)
	assert.Equal(t, "x", e.Body.Plain)
	require.NotNil(t, e.SendTime)
	assert.True(t, e.SendTime.Equal(now))
	assert.True(t, e.Dirty)
}

func TestEmailGetNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM emails").WillReturnError(sql.ErrNoRows)

	_, err := NewEmailRepo(db).Get(context.Background(), emailID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Email not found", err.Error())
}

func TestEmailListFilters(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f := filter.Email{
		Page:      filter.Page{Page: 2, PerPage: 5},
		Templates: []string{tplID},
		Dirty:     filter.True,
		Sent:      filter.False,
		ToSend:    true,
		Now:       now,
	}

	where := "WHERE template_id = ANY($1) AND dirty = $2 AND sent = $3 AND sent = false AND failed = false AND pending = false AND send_time IS NOT NULL AND send_time <= $4"
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM emails "+where)).
		WithArgs(pq.Array([]string{tplID}), true, false, now).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
	mock.ExpectQuery("(?s)"+regexp.QuoteMeta("NULL AS body")+".*"+regexp.QuoteMeta(where+" ORDER BY updated_on DESC, id LIMIT $5 OFFSET $6")).
		WithArgs(pq.Array([]string{tplID}), true, false, now, 5, 5).
		WillReturnRows(sqlmock.NewRows(emailCols).AddRow(
			emailID, "Hello", tplID, nil, nil, true, false, false, false, false, false, nil, now, now,
		))

	list, total, err := NewEmailRepo(db).List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Body)
	assert.Nil(t, list[0].SendTime)
	assert.Equal(t, []domain.Part{}, list[0].Parts)
}

func TestEmailUpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE emails SET subject = $1, template_id = $2")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewEmailRepo(db).Update(context.Background(), &domain.Email{ID: emailID, Subject: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmailDelete(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM emails WHERE id = $1")).
		WithArgs(emailID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewEmailRepo(db).Delete(context.Background(), emailID))
}

func TestTemplateCreateStoresFieldsAsJSON(t *testing.T) {
	db, mock := newMock(t)
	tpl := &domain.Template{
		ID:     tplID,
		Name:   "Weekly",
		Path:   "weekly.html",
		From:   domain.Address{Address: "news@example.com", Name: "News"},
		Fields: []domain.Field{{Name: "intro", Type: domain.FieldWysiwyg}},
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO templates")).
		WithArgs(tplID, "Weekly", "weekly.html", "", "", "news@example.com", "News", "",
			`[{"name":"intro","type":"wysiwyg","label":""}]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewTemplateRepo(db).Create(context.Background(), tpl))
}

func TestTemplateList(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM templates")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY name, id LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "path", "label_color", "campaign_param", "from_address", "from_name", "list", "fields"}).
			AddRow(tplID, "Weekly", "weekly.html", "", "", "news@example.com", "News", "", nil))

	list, total, err := NewTemplateRepo(db).List(context.Background(), filter.Page{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, []domain.Field{}, list[0].Fields)
	assert.Empty(t, list[0].Body)
}

func TestFieldGet(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM fields WHERE id = $1")).
		WithArgs("f-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "label", "options"}).
			AddRow("f-1", "news", "newsFeed", "News", []byte(`{"max":5}`)))

	f, err := NewFieldRepo(db).Get(context.Background(), "f-1")
	require.NoError(t, err)
	assert.Equal(t, domain.FieldNewsFeed, f.Type)
	assert.JSONEq(t, `{"max":5}`, string(f.Options))
}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	err := NewUserRepo(db).Create(context.Background(), &domain.User{ID: "u-1", Email: "a@example.com"})
	assert.Equal(t, user.ErrEmailExists, err)
}

func TestUserGetByEmailIsCaseInsensitive(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = $1")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "permissions", "created_on", "updated_on"}).
			AddRow("u-1", "ada@example.com", []byte(`{"canReadUsers":true}`), now, now))

	u, err := NewUserRepo(db).GetByEmail(context.Background(), "Ada@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u.Permissions)
	assert.True(t, u.Permissions.CanReadUsers)
}

func TestConditionsPageClampsBounds(t *testing.T) {
	c := &conditions{}
	c.add("sent = ?", false)

	suffix, args := c.page(0, -2)
	assert.Equal(t, " LIMIT $2 OFFSET $3", suffix)
	assert.Equal(t, []interface{}{false, 10, 0}, args)
}
