// Package filter turns list query parameters into typed filter and
// pagination values shared by the repositories.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/newsletter-api/internal/domain"
)

// Page defaults.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Tristate is a boolean query filter that may be absent.
type Tristate int

const (
	Unset Tristate = iota
	True
	False
)

// ParseTristate reads key from q. A present key with an empty value or
// "true" is True, "false" is False; any other value leaves it Unset.
func ParseTristate(q url.Values, key string) Tristate {
	vals, ok := q[key]
	if !ok {
		return Unset
	}
	v := ""
	if len(vals) > 0 {
		v = strings.ToLower(strings.TrimSpace(vals[0]))
	}
	switch v {
	case "", "true":
		return True
	case "false":
		return False
	}
	return Unset
}

// Matches reports whether b satisfies the filter.
func (t Tristate) Matches(b bool) bool {
	switch t {
	case True:
		return b
	case False:
		return !b
	}
	return true
}

// Page is a 1-based page request.
type Page struct {
	Page    int
	PerPage int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePage reads p and pp. Missing, malformed or non-positive values fall
// back to the defaults. pp is capped at MaxPerPage and p is clamped so
// the offset fits in an int.
func ParsePage(q url.Values) Page {
	page, _ := strconv.Atoi(q.Get("p"))
	perPage, _ := strconv.Atoi(q.Get("pp"))
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page-1 > math.MaxInt/perPage {
		page = math.MaxInt / perPage
	}
	return Page{Page: page, PerPage: perPage}
}

// Email is the filter for email listings. Conditions combine with AND;
// Templates is an OR-group on the template reference.
type Email struct {
	Page
	Templates []string
	Dirty     Tristate
	Sent      Tristate
	ToSubEdit Tristate
	SubEdited Tristate
	// ToSend selects emails that are due: not sent, not failed, not pending,
	// and with a send time at or before Now.
	ToSend bool
	Now    time.Time
}

// ParseEmail builds an email filter from q. now anchors the toSend shorthand.
// A malformed template id in t is an InvalidID error.
func ParseEmail(q url.Values, now time.Time) (Email, error) {
	f := Email{
		Page:      ParsePage(q),
		Dirty:     ParseTristate(q, "dirty"),
		Sent:      ParseTristate(q, "sent"),
		ToSubEdit: ParseTristate(q, "toSubEdit"),
		SubEdited: ParseTristate(q, "subEdited"),
		ToSend:    ParseTristate(q, "toSend") == True,
		Now:       now,
	}

	if raw := q.Get("t"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, err := uuid.Parse(id); err != nil {
				return Email{}, domain.InvalidID("Template")
			}
			f.Templates = append(f.Templates, id)
		}
	}
	return f, nil
}

// Matches applies every condition of f to e.
func (f Email) Matches(e *domain.Email) bool {
	if len(f.Templates) > 0 && !contains(f.Templates, e.Template) {
		return false
	}
	if !f.Dirty.Matches(e.Dirty) || !f.Sent.Matches(e.Sent) ||
		!f.ToSubEdit.Matches(e.ToSubEdit) || !f.SubEdited.Matches(e.SubEdited) {
		return false
	}
	if f.ToSend {
		if e.Sent || e.Failed || e.Pending || e.SendTime == nil || e.SendTime.After(f.Now) {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
