package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/service/field"
)

func (h *Handlers) ListFields(w http.ResponseWriter, r *http.Request) {
	p := filter.ParsePage(r.URL.Query())
	list, total, err := h.fields.List(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	setPageHeaders(w, p, total)
	httputil.OK(w, list)
}

func (h *Handlers) CreateField(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, field.DecodePatch)
	if !ok {
		return
	}
	f, err := h.fields.Create(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Created(w, f)
}

func (h *Handlers) GetField(w http.ResponseWriter, r *http.Request) {
	f, err := h.fields.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, f)
}

func (h *Handlers) PatchField(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, field.DecodePatch)
	if !ok {
		return
	}
	f, err := h.fields.Patch(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, f)
}

func (h *Handlers) DeleteField(w http.ResponseWriter, r *http.Request) {
	f, err := h.fields.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, f)
}
