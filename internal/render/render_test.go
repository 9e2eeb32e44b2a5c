package render_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/render"
)

const rss = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Ignite News</title><link>https://example.com</link>
<item><title>First story</title><link>https://example.com/1</link><description>&lt;p&gt;One&lt;/p&gt;</description></item>
<item><title>Second story</title><link>https://example.com/2</link></item>
</channel></rss>`

func TestRenderParts(t *testing.T) {
	r := render.NewRenderer(nil)
	tpl := &domain.Template{
		ID:   domain.NewID(),
		Name: "Weekly",
		Body: `<h1>{{ subject }}</h1>{{ intro }}|{{ parts.intro }}|{{ template.from.name }}`,
		From: domain.Address{Address: "news@example.com", Name: "News"},
	}
	e := &domain.Email{
		ID:      domain.NewID(),
		Subject: "Hello",
		Parts:   []domain.Part{{Name: "intro", Value: "<p>Hi</p>"}},
	}

	out, err := r.Render(context.Background(), tpl, e)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hello</h1><p>Hi</p>|<p>Hi</p>|News", out)
}

func TestRenderNewsFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	defer srv.Close()

	r := render.NewRenderer(nil)
	tpl := &domain.Template{
		Body:   `{{ news.title }}:{% for item in news.items %}[{{ item.title }}={{ item.description }}]{% endfor %}`,
		Fields: []domain.Field{{Name: "news", Type: domain.FieldNewsFeed}},
	}
	e := &domain.Email{Parts: []domain.Part{{Name: "news", Value: srv.URL}}}

	out, err := r.Render(context.Background(), tpl, e)
	require.NoError(t, err)
	assert.Equal(t, "Ignite News:[First story=One][Second story=]", out)
}

func TestRenderUnreachableFeedIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := render.NewRenderer(nil)
	tpl := &domain.Template{
		Body:   `[{% for item in news.items %}{{ item.title }}{% endfor %}]`,
		Fields: []domain.Field{{Name: "news", Type: domain.FieldNewsFeed}},
	}
	e := &domain.Email{Parts: []domain.Part{{Name: "news", Value: srv.URL}}}

	out, err := r.Render(context.Background(), tpl, e)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}

func TestRenderErrors(t *testing.T) {
	r := render.NewRenderer(nil)

	_, err := r.Render(context.Background(), &domain.Template{}, &domain.Email{})
	assert.ErrorIs(t, err, domain.ErrSourceUnreadable)

	_, err = r.Render(context.Background(), &domain.Template{Body: "{% if %}"}, &domain.Email{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
