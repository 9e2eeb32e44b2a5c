package email

import (
	"fmt"
	"strings"
	"time"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/htmltext"
)

// Apply runs the patch rules against stored and returns the merged email.
// stored is not modified. Rules, in order:
//
//  1. a sent email cannot be patched
//  2. a scheduled email only accepts {sendTime}, {sent} or {failed}
//  3. body.plain is read-only
//  4. body.html recomputes body.plain
//  5. sendTime "now" becomes the current time
//  6. dirty is set unless the patch sends dirty:false
//  7. updatedOn is stamped
func Apply(stored *domain.Email, p *Patch, now time.Time) (*domain.Email, error) {
	if stored.IsTerminal() {
		return nil, ErrAlreadySent
	}
	if stored.IsScheduled() && !(p.singleKey("sendTime") || p.singleKey("sent") || p.singleKey("failed")) {
		return nil, ErrScheduled
	}
	if err := checkShape(p); err != nil {
		return nil, err
	}

	merged := *stored
	if stored.Body != nil {
		body := *stored.Body
		merged.Body = &body
	}

	if p.Subject != nil {
		if strings.TrimSpace(*p.Subject) == "" {
			return nil, ErrSubjectBlank
		}
		merged.Subject = *p.Subject
	}
	if p.Template != nil {
		if strings.TrimSpace(*p.Template) == "" {
			return nil, ErrTemplateBlank
		}
		merged.Template = *p.Template
	}
	if p.Parts != nil {
		merged.Parts = *p.Parts
	}
	if err := applyBody(&merged, p); err != nil {
		return nil, err
	}
	if p.SendTime.Set {
		merged.SendTime = p.SendTime.resolve(now)
	}

	setFlag(&merged.Sent, p.Sent)
	setFlag(&merged.Failed, p.Failed)
	setFlag(&merged.Pending, p.Pending)
	setFlag(&merged.ToSubEdit, p.ToSubEdit)
	setFlag(&merged.SubEdited, p.SubEdited)

	merged.Dirty = true
	if p.Dirty != nil && !*p.Dirty {
		merged.Dirty = false
	}
	merged.UpdatedOn = now
	return &merged, nil
}

// New builds a fresh email from a create request. Only the body and sendTime
// rules apply; the template reference is checked by the service.
func New(p *Patch, now time.Time) (*domain.Email, error) {
	if err := checkShape(p); err != nil {
		return nil, err
	}
	if p.Subject == nil || strings.TrimSpace(*p.Subject) == "" {
		return nil, ErrSubjectBlank
	}
	if p.Template == nil || strings.TrimSpace(*p.Template) == "" {
		return nil, ErrTemplateBlank
	}

	e := &domain.Email{
		ID:        domain.NewID(),
		Subject:   *p.Subject,
		Template:  *p.Template,
		Parts:     []domain.Part{},
		CreatedOn: now,
		UpdatedOn: now,
	}
	if p.Parts != nil {
		e.Parts = *p.Parts
	}
	if err := applyBody(e, p); err != nil {
		return nil, err
	}
	if p.SendTime.Set {
		e.SendTime = p.SendTime.resolve(now)
	}

	setFlag(&e.Dirty, p.Dirty)
	setFlag(&e.Sent, p.Sent)
	setFlag(&e.Failed, p.Failed)
	setFlag(&e.Pending, p.Pending)
	setFlag(&e.ToSubEdit, p.ToSubEdit)
	setFlag(&e.SubEdited, p.SubEdited)
	return e, nil
}

// checkShape rejects a client plain body, unknown keys and unnamed parts.
func checkShape(p *Patch) error {
	if p.hasPlain {
		return ErrPlainReadOnly
	}
	if len(p.unknown) > 0 {
		return domain.Validation("Unknown property: %s", p.unknown[0])
	}
	if p.Parts != nil {
		for _, part := range *p.Parts {
			if strings.TrimSpace(part.Name) == "" {
				return ErrPartNameBlank
			}
		}
	}
	return nil
}

func applyBody(e *domain.Email, p *Patch) error {
	if p.Body == nil || p.Body.HTML == nil {
		return nil
	}
	plain, err := htmltext.Convert(*p.Body.HTML)
	if err != nil {
		return fmt.Errorf("convert body: %w", err)
	}
	if e.Body == nil {
		e.Body = &domain.Body{}
	}
	e.Body.HTML = *p.Body.HTML
	e.Body.Plain = plain
	return nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
