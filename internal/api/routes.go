package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/newsletter-api/internal/auth"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

// SetupRoutes configures all API routes. /health and POST /auth are public;
// everything else sits behind the authentication middleware.
func SetupRoutes(h *Handlers, d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{auth.RenewalHeader, headerPage, headerPerPage, headerTotalCount},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if d.Health != nil {
		r.Get("/health", d.Health.HandleHealth)
	}
	if d.Login != nil {
		r.Post("/auth", d.Login.HandleLogin)
	} else {
		r.Post("/auth", func(w http.ResponseWriter, _ *http.Request) {
			httputil.Unauthorized(w, "Unauthorized")
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(d.Auth.RequireAuth)

		r.Route("/emails", func(r chi.Router) {
			r.Get("/", h.ListEmails)
			r.Post("/", h.CreateEmail)
			r.Get("/{id}", h.GetEmail)
			r.Patch("/{id}", h.PatchEmail)
			r.Delete("/{id}", h.DeleteEmail)
			r.Get("/{id}/preview", h.PreviewEmail)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.CreateTemplate)
			r.Get("/{id}", h.GetTemplate)
			r.Patch("/{id}", h.PatchTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
		})

		r.Route("/fields", func(r chi.Router) {
			r.Get("/", h.ListFields)
			r.Post("/", h.CreateField)
			r.Get("/{id}", h.GetField)
			r.Patch("/{id}", h.PatchField)
			r.Delete("/{id}", h.DeleteField)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Patch("/{id}", h.PatchUser)
			r.Delete("/{id}", h.DeleteUser)
		})

		r.Post("/send-test-email", h.SendTestEmail)

		r.Get("/images", h.ListImages)
		r.Post("/images", h.UploadImage)
	})

	return r
}

// requestLogger logs one structured line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
