package api

import (
	"errors"
	"net/http"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
)

// respondError maps a service error to its HTTP status. Errors that carry no
// domain kind are internal and never leak their message.
func respondError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		httputil.InternalError(w, err)
		return
	}
	httputil.Error(w, statusFor(de.Kind), de.Message)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, domain.ErrInvalidID),
		errors.Is(kind, domain.ErrValidation),
		errors.Is(kind, domain.ErrSourceUnreadable),
		errors.Is(kind, domain.ErrUpstreamSend):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
