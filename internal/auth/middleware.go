package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

// Rejection messages returned in 401 bodies.
const (
	msgMissingHeader      = "Please make sure your request has an Authorization header"
	msgUnsupportedScheme  = "Authentication method not supported"
	msgInvalidCredentials = "Invalid username or password"
)

// RenewalHeader carries the sliding-window token on every authenticated response.
const RenewalHeader = "X-Auth"

// Middleware gates requests on a Bearer token or Basic credentials. It only
// resolves identity and renews tokens; it never performs business logic.
type Middleware struct {
	tokens        *TokenService
	basicUser     string
	basicPassword string
}

// NewMiddleware creates the authentication gate.
func NewMiddleware(tokens *TokenService, basicUser, basicPassword string) *Middleware {
	return &Middleware{
		tokens:        tokens,
		basicUser:     basicUser,
		basicPassword: basicPassword,
	}
}

// RequireAuth rejects unauthenticated requests with 401 and attaches an
// Identity to the context of the rest.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httputil.Unauthorized(w, msgMissingHeader)
			return
		}

		scheme, _, _ := strings.Cut(header, " ")
		var id Identity
		switch strings.ToLower(scheme) {
		case "bearer":
			token := strings.TrimSpace(header[len(scheme):])
			email, err := m.tokens.Verify(token)
			if err != nil {
				httputil.Unauthorized(w, err.Error())
				return
			}
			id = Identity{Email: email, Method: MethodBearer}

		case "basic":
			user, pass, ok := r.BasicAuth()
			if !ok || !m.checkBasic(user, pass) {
				logger.Warn("basic auth rejected", "remote", r.RemoteAddr)
				httputil.Unauthorized(w, msgInvalidCredentials)
				return
			}
			id = Identity{Email: user, Method: MethodBasic}

		default:
			httputil.Unauthorized(w, msgUnsupportedScheme)
			return
		}

		renewed, err := m.tokens.Issue(id.Email)
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		w.Header().Set(RenewalHeader, renewed)
		w.Header().Set("Cache-Control", "no-cache, no-store")

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func (m *Middleware) checkBasic(user, pass string) bool {
	if m.basicUser == "" || m.basicPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(m.basicUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(m.basicPassword)) == 1
	return userOK && passOK
}
