package template

import "github.com/ignite/newsletter-api/internal/domain"

// Validation errors for template writes.
var (
	ErrNameBlank      = domain.Validation("name cannot be blank")
	ErrPathBlank      = domain.Validation("path cannot be blank")
	ErrFieldNameBlank = domain.Validation("field name cannot be blank")
)
