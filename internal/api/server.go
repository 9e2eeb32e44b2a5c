// Package api exposes the newsletter services over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/newsletter-api/internal/auth"
	"github.com/ignite/newsletter-api/internal/config"
	"github.com/ignite/newsletter-api/internal/render"
	"github.com/ignite/newsletter-api/internal/service/email"
	"github.com/ignite/newsletter-api/internal/service/field"
	"github.com/ignite/newsletter-api/internal/service/sendtest"
	"github.com/ignite/newsletter-api/internal/service/template"
	"github.com/ignite/newsletter-api/internal/service/user"
	"github.com/ignite/newsletter-api/internal/storage"
)

// Deps are the collaborators the HTTP layer is built from. Images and Login
// may be nil when image storage or OAuth is not configured.
type Deps struct {
	Emails    *email.Service
	Templates *template.Service
	Fields    *field.Service
	Users     *user.Service
	SendTest  *sendtest.Service
	Renderer  *render.Renderer
	Images    *storage.ImageStore
	Auth      *auth.Middleware
	Login     *auth.OAuthLogin
	Health    *HealthChecker
	CORS      config.CORSConfig
}

// Server represents the API server
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server
func NewServer(d Deps) *Server {
	return &Server{handler: SetupRoutes(newHandlers(d), d)}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
