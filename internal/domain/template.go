package domain

// Address is a sender mailbox.
type Address struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Template is the reusable structure an Email is instantiated against. Path
// points at the template source; Body is filled from that source on read and
// never persisted.
type Template struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	LabelColor    string  `json:"labelColor"`
	CampaignParam string  `json:"campaignParam"`
	From          Address `json:"from"`
	List          string  `json:"list"`
	Fields        []Field `json:"fields"`
	Body          string  `json:"body,omitempty"`
}

// FieldByName returns the template field with the given name, if any.
func (t *Template) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
