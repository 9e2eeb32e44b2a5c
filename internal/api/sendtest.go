package api

import (
	"encoding/json"
	"net/http"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/service/sendtest"
)

// SendTestEmail handles POST /send-test-email with {email, recipients}.
func (h *Handlers) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req sendtest.Request
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			respondError(w, domain.Validation("Request body must be a JSON object"))
			return
		}
	}

	res, err := h.sendTest.Send(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, res)
}
