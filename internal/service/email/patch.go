package email

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/ignite/newsletter-api/internal/domain"
)

// patchable lists the top-level keys a client may send.
var patchable = map[string]bool{
	"subject":   true,
	"template":  true,
	"parts":     true,
	"body":      true,
	"dirty":     true,
	"sent":      true,
	"failed":    true,
	"pending":   true,
	"toSubEdit": true,
	"subEdited": true,
	"sendTime":  true,
}

// SendTime is the sendTime value of a patch. It tells apart a missing key,
// an explicit null (unschedule), "now" and a timestamp.
type SendTime struct {
	Set  bool
	Now  bool
	Time *time.Time
}

// UnmarshalJSON accepts null, "now" in any case, or an RFC 3339 timestamp.
func (s *SendTime) UnmarshalJSON(data []byte) error {
	s.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Validation("sendTime must be a date or \"now\"")
	}
	if strings.EqualFold(strings.TrimSpace(raw), "now") {
		s.Now = true
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return domain.Validation("sendTime must be a date or \"now\"")
	}
	s.Time = &t
	return nil
}

// resolve returns the stored value for the send time, or nil to unschedule.
func (s SendTime) resolve(now time.Time) *time.Time {
	if s.Now {
		return &now
	}
	if s.Time == nil {
		return nil
	}
	t := s.Time.UTC()
	return &t
}

// BodyPatch is the body member of a patch. Plain is only decoded so that it
// can be rejected.
type BodyPatch struct {
	HTML  *string `json:"html"`
	Plain *string `json:"plain"`
}

// Patch is a typed partial email. Nil fields are left untouched.
type Patch struct {
	Subject   *string        `json:"subject"`
	Template  *string        `json:"template"`
	Parts     *[]domain.Part `json:"parts"`
	Body      *BodyPatch     `json:"body"`
	Dirty     *bool          `json:"dirty"`
	Sent      *bool          `json:"sent"`
	Failed    *bool          `json:"failed"`
	Pending   *bool          `json:"pending"`
	ToSubEdit *bool          `json:"toSubEdit"`
	SubEdited *bool          `json:"subEdited"`
	SendTime  SendTime       `json:"sendTime"`

	keys     []string
	unknown  []string
	hasPlain bool
}

// DecodePatch parses a request body. Unknown keys are recorded rather than
// rejected so the lifecycle rules can run in order first.
func DecodePatch(data []byte) (*Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, domain.Validation("Request body must be a JSON object")
	}

	p := &Patch{}
	for k := range raw {
		p.keys = append(p.keys, k)
		if !patchable[k] {
			p.unknown = append(p.unknown, k)
		}
	}
	sort.Strings(p.keys)
	sort.Strings(p.unknown)

	if body, ok := raw["body"]; ok && !bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		var bodyKeys map[string]json.RawMessage
		if err := json.Unmarshal(body, &bodyKeys); err != nil {
			return nil, domain.Validation("Invalid value for body")
		}
		for k := range bodyKeys {
			switch k {
			case "plain":
				p.hasPlain = true
			case "html":
			default:
				p.unknown = append(p.unknown, "body."+k)
			}
		}
	}

	if err := json.Unmarshal(data, p); err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return nil, de
		}
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) && ute.Field != "" {
			return nil, domain.Validation("Invalid value for %s", ute.Field)
		}
		return nil, domain.Validation("Request body must be a JSON object")
	}
	return p, nil
}

// Keys returns the sorted top-level keys present in the request.
func (p *Patch) Keys() []string { return p.keys }

// singleKey reports whether the patch consists of exactly the one key k.
func (p *Patch) singleKey(k string) bool {
	return len(p.keys) == 1 && p.keys[0] == k
}
