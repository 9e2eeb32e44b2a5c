package domain

import "time"

// Permissions gates what a user may do in the admin tool.
type Permissions struct {
	CanCreateUsers     bool `json:"canCreateUsers"`
	CanReadUsers       bool `json:"canReadUsers"`
	CanUpdateUsers     bool `json:"canUpdateUsers"`
	CanDeleteUsers     bool `json:"canDeleteUsers"`
	CanCreateEmails    bool `json:"canCreateEmails"`
	CanReadEmails      bool `json:"canReadEmails"`
	CanUpdateEmails    bool `json:"canUpdateEmails"`
	CanDeleteEmails    bool `json:"canDeleteEmails"`
	CanCreateTemplates bool `json:"canCreateTemplates"`
	CanReadTemplates   bool `json:"canReadTemplates"`
	CanUpdateTemplates bool `json:"canUpdateTemplates"`
	CanDeleteTemplates bool `json:"canDeleteTemplates"`
	CanReadAnalytics   bool `json:"canReadAnalytics"`
}

// User is an account allowed to sign in. Email is stored lower-cased.
type User struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	Permissions *Permissions `json:"permissions,omitempty"`
	CreatedOn   time.Time    `json:"createdOn"`
	UpdatedOn   time.Time    `json:"updatedOn"`
}
