package domain

import (
	"time"
)

// Part is the content an email supplies for one template field.
type Part struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// Body holds both renditions of an email. Plain is always derived from HTML.
type Body struct {
	Plain string `json:"plain"`
	HTML  string `json:"html"`
}

// Email is a newsletter issue composed against a Template.
type Email struct {
	ID        string     `json:"id"`
	Subject   string     `json:"subject"`
	Template  string     `json:"template"`
	Parts     []Part     `json:"parts"`
	Body      *Body      `json:"body,omitempty"`
	CreatedOn time.Time  `json:"createdOn"`
	UpdatedOn time.Time  `json:"updatedOn"`
	Dirty     bool       `json:"dirty"`
	Sent      bool       `json:"sent"`
	Failed    bool       `json:"failed"`
	Pending   bool       `json:"pending"`
	ToSubEdit bool       `json:"toSubEdit"`
	SubEdited bool       `json:"subEdited"`
	SendTime  *time.Time `json:"sendTime"`
}

// IsScheduled reports whether the email has a send time and has not gone out yet.
func (e *Email) IsScheduled() bool {
	return e.SendTime != nil && !e.Sent
}

// IsTerminal returns true once the email has been sent; sent emails are immutable.
func (e *Email) IsTerminal() bool {
	return e.Sent
}
