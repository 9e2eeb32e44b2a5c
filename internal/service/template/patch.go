package template

import (
	"strings"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/strictjson"
)

// Patch is a typed partial template. Nil fields are left untouched.
type Patch struct {
	Name          *string         `json:"name"`
	Path          *string         `json:"path"`
	LabelColor    *string         `json:"labelColor"`
	CampaignParam *string         `json:"campaignParam"`
	From          *domain.Address `json:"from"`
	List          *string         `json:"list"`
	Fields        *[]domain.Field `json:"fields"`
}

// DecodePatch parses a create or patch body, rejecting unknown keys.
func DecodePatch(data []byte) (*Patch, error) {
	var p Patch
	if err := strictjson.Decode(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Patch) apply(t *domain.Template) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Path != nil {
		t.Path = *p.Path
	}
	if p.LabelColor != nil {
		t.LabelColor = *p.LabelColor
	}
	if p.CampaignParam != nil {
		t.CampaignParam = *p.CampaignParam
	}
	if p.From != nil {
		t.From = *p.From
	}
	if p.List != nil {
		t.List = *p.List
	}
	if p.Fields != nil {
		t.Fields = *p.Fields
	}
}

// validate checks the merged template before any source read.
func validate(t *domain.Template) error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrNameBlank
	}
	if strings.TrimSpace(t.Path) == "" {
		return ErrPathBlank
	}
	for _, f := range t.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return ErrFieldNameBlank
		}
		if !f.Type.Valid() {
			return domain.Validation("%s is not a valid field type", f.Type)
		}
	}
	return nil
}
