package email

import "github.com/ignite/newsletter-api/internal/domain"

// Lifecycle rejections. All are validation errors (HTTP 400).
var (
	ErrAlreadySent    = domain.Validation("Cannot patch. The email has already been sent.")
	ErrScheduled      = domain.Validation("The email is already scheduled, the required property cannot be edited.")
	ErrPlainReadOnly  = domain.Validation("The plain text body is read-only, it cannot be overridden.")
	ErrSubjectBlank   = domain.Validation("subject cannot be blank")
	ErrTemplateBlank  = domain.Validation("template cannot be blank")
	ErrTemplateAbsent = domain.Validation("template does not exist")
	ErrPartNameBlank  = domain.Validation("name cannot be blank")
)
