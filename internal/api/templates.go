package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/service/template"
)

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	p := filter.ParsePage(r.URL.Query())
	list, total, err := h.templates.List(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	setPageHeaders(w, p, total)
	httputil.OK(w, list)
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, template.DecodePatch)
	if !ok {
		return
	}
	t, err := h.templates.Create(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Created(w, t)
}

// GetTemplate returns the template with its source in body.
func (h *Handlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, t)
}

func (h *Handlers) PatchTemplate(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, template.DecodePatch)
	if !ok {
		return
	}
	t, err := h.templates.Patch(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, t)
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, t)
}
