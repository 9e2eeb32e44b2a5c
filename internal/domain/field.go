package domain

import "encoding/json"

// FieldType enumerates the kinds of content slot a template can declare.
type FieldType string

const (
	FieldTextbox      FieldType = "textbox"
	FieldWysiwyg      FieldType = "wysiwyg"
	FieldFooterWidget FieldType = "footerWidget"
	FieldAuthorWidget FieldType = "authorWidget"
	FieldNewsFeed     FieldType = "newsFeed"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTextbox, FieldWysiwyg, FieldFooterWidget, FieldAuthorWidget, FieldNewsFeed:
		return true
	}
	return false
}

// Field is a named, typed content slot. It exists standalone and embedded in
// a Template's field list.
type Field struct {
	ID      string          `json:"id,omitempty"`
	Name    string          `json:"name"`
	Type    FieldType       `json:"type"`
	Label   string          `json:"label"`
	Options json.RawMessage `json:"options,omitempty"`
}
