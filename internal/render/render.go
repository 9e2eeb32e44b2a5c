// Package render produces the HTML preview of an email: its template source
// rendered with Liquid against the email's parts.
package render

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/osteele/liquid"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/htmltext"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

const (
	defaultFeedTimeout = 10 * time.Second
	maxFeedItems       = 20
)

// FeedFetcher loads a news feed by URL.
type FeedFetcher interface {
	ParseURLWithContext(url string, ctx context.Context) (*gofeed.Feed, error)
}

// Feed is the value a newsFeed part is replaced with before rendering.
type Feed struct {
	Title string
	Link  string
	Items []FeedItem
}

// FeedItem is one entry of a Feed.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Author      string
	Image       string
	Published   time.Time
}

// Renderer renders email previews.
type Renderer struct {
	engine      *liquid.Engine
	feeds       FeedFetcher
	feedTimeout time.Duration
}

// NewRenderer creates a renderer. A nil feeds uses a default gofeed parser.
func NewRenderer(feeds FeedFetcher) *Renderer {
	if feeds == nil {
		feeds = gofeed.NewParser()
	}
	engine := liquid.NewEngine()
	engine.RegisterFilter("plain", func(s string) string {
		return htmltext.ConvertString(s)
	})
	engine.RegisterFilter("truncate_words", func(s string, n int) string {
		words := strings.Fields(s)
		if n <= 0 || len(words) <= n {
			return s
		}
		return strings.Join(words[:n], " ") + "..."
	})
	return &Renderer{engine: engine, feeds: feeds, feedTimeout: defaultFeedTimeout}
}

// Render executes tpl.Body with the email's bindings. tpl.Body must already
// be hydrated; an empty body means the source could not be read.
func (r *Renderer) Render(ctx context.Context, tpl *domain.Template, e *domain.Email) (string, error) {
	if tpl.Body == "" {
		return "", domain.SourceUnreadable()
	}

	out, err := r.engine.ParseAndRenderString(tpl.Body, r.bindings(ctx, tpl, e))
	if err != nil {
		logger.Warn("preview render failed", "email_id", e.ID, "template_id", tpl.ID, "error", err)
		return "", domain.Validation("template could not be rendered: %s", err.Error())
	}
	return out, nil
}

func (r *Renderer) bindings(ctx context.Context, tpl *domain.Template, e *domain.Email) map[string]any {
	parts := make(map[string]any, len(e.Parts))
	for _, p := range e.Parts {
		parts[p.Name] = p.Value
		if f, ok := tpl.FieldByName(p.Name); ok && f.Type == domain.FieldNewsFeed {
			if u, ok := p.Value.(string); ok && u != "" {
				parts[p.Name] = r.feed(ctx, u)
			}
		}
	}

	b := map[string]any{
		"subject": e.Subject,
		"parts":   parts,
		"email": map[string]any{
			"id":       e.ID,
			"subject":  e.Subject,
			"sendTime": e.SendTime,
		},
		"template": map[string]any{
			"name":          tpl.Name,
			"campaignParam": tpl.CampaignParam,
			"from":          map[string]any{"address": tpl.From.Address, "name": tpl.From.Name},
		},
	}
	// Parts are also available at the top level unless they collide with
	// the names above.
	for k, v := range parts {
		if _, taken := b[k]; !taken {
			b[k] = v
		}
	}
	return b
}

// feed fetches and flattens a feed. Failures render as an empty feed.
func (r *Renderer) feed(ctx context.Context, url string) map[string]any {
	ctx, cancel := context.WithTimeout(ctx, r.feedTimeout)
	defer cancel()

	parsed, err := r.feeds.ParseURLWithContext(url, ctx)
	if err != nil {
		logger.Warn("news feed fetch failed", "url", url, "error", err)
		return feedBinding(Feed{Link: url})
	}
	return feedBinding(toFeed(parsed))
}

func toFeed(f *gofeed.Feed) Feed {
	out := Feed{Title: f.Title, Link: f.Link}
	for i, item := range f.Items {
		if i == maxFeedItems {
			break
		}
		fi := FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: htmltext.ConvertString(item.Description),
		}
		switch {
		case item.PublishedParsed != nil:
			fi.Published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			fi.Published = *item.UpdatedParsed
		}
		if item.Image != nil {
			fi.Image = item.Image.URL
		} else {
			for _, enc := range item.Enclosures {
				if strings.HasPrefix(enc.Type, "image/") {
					fi.Image = enc.URL
					break
				}
			}
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			fi.Author = item.Authors[0].Name
		}
		out.Items = append(out.Items, fi)
	}
	return out
}

func feedBinding(f Feed) map[string]any {
	items := make([]map[string]any, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, map[string]any{
			"title":       it.Title,
			"link":        it.Link,
			"description": it.Description,
			"author":      it.Author,
			"image":       it.Image,
			"published":   it.Published,
		})
	}
	return map[string]any{
		"title": f.Title,
		"link":  f.Link,
		"items": items,
	}
}
