package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/newsletter-api/internal/filter"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/service/user"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := filter.ParsePage(r.URL.Query())
	list, total, err := h.users.List(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	setPageHeaders(w, p, total)
	httputil.OK(w, list)
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, user.DecodePatch)
	if !ok {
		return
	}
	u, err := h.users.Create(r.Context(), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.Created(w, u)
}

// GetUser returns the user with permissions; listings omit them.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, u)
}

func (h *Handlers) PatchUser(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePatch(w, r, user.DecodePatch)
	if !ok {
		return
	}
	u, err := h.users.Patch(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, u)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	httputil.OK(w, u)
}
