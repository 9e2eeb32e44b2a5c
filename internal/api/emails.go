package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/service/email"
)

// ListEmails handles GET /emails. Bodies are not included.
func (h *Handlers) ListEmails(w http.ResponseWriter, r *http.Request) {
	f, err := filter.ParseEmail(r.URL.Query(), h.emails.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	list, total, err := h.emails.List(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}
	setPageHeaders(w, f.Page, total)
	httputil.OK(w, list)
}

// CreateEmail handles POST /emails.
func (h *Handlers) CreateEmail(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, email.DecodePatch)
	if !ok {
		return
	}
	e, err := h.emails.Create(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Created(w, e)
}

func (h *Handlers) GetEmail(w http.ResponseWriter, r *http.Request) {
	e, err := h.emails.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, e)
}

// PatchEmail handles PATCH /emails/{id} through the lifecycle rules.
func (h *Handlers) PatchEmail(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, email.DecodePatch)
	if !ok {
		return
	}
	e, err := h.emails.Patch(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, e)
}

func (h *Handlers) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	e, err := h.emails.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, e)
}

// PreviewEmail handles GET /emails/{id}/preview and responds with text/html.
func (h *Handlers) PreviewEmail(w http.ResponseWriter, r *http.Request) {
	e, err := h.emails.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	tpl, err := h.templates.Get(r.Context(), e.Template)
	if err != nil {
		respondError(w, err)
		return
	}
	out, err := h.renderer.Render(r.Context(), tpl, e)
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

