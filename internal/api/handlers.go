package api

import (
	"io"
	"net/http"

	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/render"
	"github.com/ignite/newsletter-api/internal/service/email"
	"github.com/ignite/newsletter-api/internal/service/field"
	"github.com/ignite/newsletter-api/internal/service/sendtest"
	"github.com/ignite/newsletter-api/internal/service/template"
	"github.com/ignite/newsletter-api/internal/service/user"
	"github.com/ignite/newsletter-api/internal/storage"
)

const maxBodyBytes = 2 << 20

// Handlers holds the HTTP handlers for the authenticated resources.
type Handlers struct {
	emails    *email.Service
	templates *template.Service
	fields    *field.Service
	users     *user.Service
	sendTest  *sendtest.Service
	renderer  *render.Renderer
	images    *storage.ImageStore
}

func newHandlers(d Deps) *Handlers {
	return &Handlers{
		emails:    d.Emails,
		templates: d.Templates,
		fields:    d.Fields,
		users:     d.Users,
		sendTest:  d.SendTest,
		renderer:  d.Renderer,
		images:    d.Images,
	}
}

// readBody returns the request body, capped at maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.Validation("Request body could not be read")
	}
	return data, nil
}

// decodePatch reads the body and runs the resource's patch decoder. On failure
// the error response is written and ok is false.
func decodePatch[P any](w http.ResponseWriter, r *http.Request, decode func([]byte) (P, error)) (p P, ok bool) {
	data, err := readBody(w, r)
	if err != nil {
		respondError(w, err)
		return p, false
	}
	p, err = decode(data)
	if err != nil {
		respondError(w, err)
		return p, false
	}
	return p, true
}
