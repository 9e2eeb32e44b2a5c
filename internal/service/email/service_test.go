package email_test

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/repository/memory"
	"github.com/ignite/newsletter-api/internal/service/email"
)

const tplID = "6f1c0b4e-8b0a-4a53-9d8e-2a7c1f1d0a01"

type fixture struct {
	svc    *email.Service
	emails *memory.EmailRepo
	clock  *time.Time
}

func setup(t *testing.T) fixture {
	t.Helper()
	templates := memory.NewTemplateRepo()
	require.NoError(t, templates.Create(context.Background(), &domain.Template{ID: tplID, Name: "Weekly", Path: "weekly.html"}))

	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	emails := memory.NewEmailRepo()
	svc := email.NewService(emails, templates).WithClock(func() time.Time { return clock })
	return fixture{svc: svc, emails: emails, clock: &clock}
}

func create(t *testing.T, f fixture, body string) *domain.Email {
	t.Helper()
	p, err := email.DecodePatch([]byte(body))
	require.NoError(t, err)
	e, err := f.svc.Create(context.Background(), p)
	require.NoError(t, err)
	return e
}

func patch(f fixture, id, body string) (*domain.Email, error) {
	p, err := email.DecodePatch([]byte(body))
	if err != nil {
		return nil, err
	}
	return f.svc.Patch(context.Background(), id, p)
}

func TestCreateDerivesPlain(t *testing.T) {
	f := setup(t)
	e := create(t, f, `{"subject":"Hello","template":"`+tplID+`","body":{"html":"<p>x</p>"}}`)

	stored, err := f.svc.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Body.Plain, "x")
}

func TestCreateUnknownTemplate(t *testing.T) {
	f := setup(t)
	for _, tpl := range []string{"6f1c0b4e-8b0a-4a53-9d8e-2a7c1f1d0aff", "not-a-uuid"} {
		p, err := email.DecodePatch([]byte(`{"subject":"Hello","template":"` + tpl + `"}`))
		require.NoError(t, err)
		_, err = f.svc.Create(context.Background(), p)
		assert.Equal(t, email.ErrTemplateAbsent, err)
	}
}

func TestGetInvalidAndMissing(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Get(context.Background(), "123")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Equal(t, "Email ID is invalid", err.Error())

	_, err = f.svc.Get(context.Background(), "6f1c0b4e-8b0a-4a53-9d8e-2a7c1f1d0aff")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Email not found", err.Error())
}

func TestPatchLifecycle(t *testing.T) {
	f := setup(t)
	e := create(t, f, `{"subject":"Hello","template":"`+tplID+`"}`)

	*f.clock = f.clock.Add(time.Minute)
	patched, err := patch(f, e.ID, `{"subject":"Edited"}`)
	require.NoError(t, err)
	assert.True(t, patched.Dirty)
	assert.Equal(t, "Edited", patched.Subject)
	assert.True(t, patched.UpdatedOn.After(patched.CreatedOn))

	// schedule, then only single-key patches are accepted
	_, err = patch(f, e.ID, `{"sendTime":"now"}`)
	require.NoError(t, err)
	_, err = patch(f, e.ID, `{"subject":"Again"}`)
	assert.Equal(t, email.ErrScheduled, err)

	_, err = patch(f, e.ID, `{"sent":true}`)
	require.NoError(t, err)
	_, err = patch(f, e.ID, `{"sendTime":null}`)
	assert.Equal(t, email.ErrAlreadySent, err)

	stored, err := f.svc.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.True(t, stored.Sent)
	assert.Equal(t, "Edited", stored.Subject)
}

func TestPatchTemplateMustExist(t *testing.T) {
	f := setup(t)
	e := create(t, f, `{"subject":"Hello","template":"`+tplID+`"}`)

	_, err := patch(f, e.ID, `{"template":"6f1c0b4e-8b0a-4a53-9d8e-2a7c1f1d0aff"}`)
	assert.Equal(t, email.ErrTemplateAbsent, err)
}

func TestListDirtyFilter(t *testing.T) {
	f := setup(t)
	clean := create(t, f, `{"subject":"Clean","template":"`+tplID+`"}`)
	dirty := create(t, f, `{"subject":"Dirty","template":"`+tplID+`","body":{"html":"<p>big</p>"}}`)
	_, err := patch(f, dirty.ID, `{"subject":"Dirty!"}`)
	require.NoError(t, err)

	q, _ := url.ParseQuery("dirty=true&pp=1&p=1")
	flt, err := filter.ParseEmail(q, f.svc.Now())
	require.NoError(t, err)

	list, total, err := f.svc.List(context.Background(), flt)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, dirty.ID, list[0].ID)
	assert.Nil(t, list[0].Body, "list excludes body")
	assert.NotEqual(t, clean.ID, list[0].ID)
}

func TestListOrderByUpdatedOn(t *testing.T) {
	f := setup(t)
	first := create(t, f, `{"subject":"First","template":"`+tplID+`"}`)
	*f.clock = f.clock.Add(time.Minute)
	second := create(t, f, `{"subject":"Second","template":"`+tplID+`"}`)
	*f.clock = f.clock.Add(time.Minute)
	_, err := patch(f, first.ID, `{"subject":"First again"}`)
	require.NoError(t, err)

	list, total, err := f.svc.List(context.Background(), filter.Email{Page: filter.Page{Page: 1, PerPage: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestDelete(t *testing.T) {
	f := setup(t)
	e := create(t, f, `{"subject":"Hello","template":"`+tplID+`"}`)

	deleted, err := f.svc.Delete(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, deleted.ID)

	_, err = f.svc.Delete(context.Background(), e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
