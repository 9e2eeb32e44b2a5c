package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ignite/newsletter-api/internal/config"
	"github.com/ignite/newsletter-api/internal/domain"
	"github.com/ignite/newsletter-api/internal/pkg/httputil"
	"github.com/ignite/newsletter-api/internal/pkg/logger"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleUserInfo represents the user info returned by Google
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	HD            string `json:"hd"` // Hosted domain (GSuite domain)
	Error         string `json:"error,omitempty"`
}

// UserLookup finds a stored user by email address.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// LoginRequest is the body of POST /auth.
type LoginRequest struct {
	Code        string `json:"code"`
	ClientID    string `json:"clientId"`
	RedirectURI string `json:"redirectUri"`
}

// LoginResponse is returned after a successful code exchange.
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile *GoogleUserInfo `json:"profile"`
	User    *domain.User    `json:"user"`
}

// OAuthLogin exchanges an authorization code for a session token. Only
// profiles on the allowed domain that match a stored user are accepted.
type OAuthLogin struct {
	config      *config.AuthConfig
	endpoint    oauth2.Endpoint
	userInfoURL string
	tokens      *TokenService
	users       UserLookup
}

// NewOAuthLogin creates the login flow. The token and userinfo URLs default to
// Google's and can be overridden in config.
func NewOAuthLogin(cfg *config.AuthConfig, tokens *TokenService, users UserLookup) *OAuthLogin {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	userInfoURL := defaultUserInfoURL
	if cfg.UserInfoURL != "" {
		userInfoURL = cfg.UserInfoURL
	}

	return &OAuthLogin{
		config:      cfg,
		endpoint:    endpoint,
		userInfoURL: userInfoURL,
		tokens:      tokens,
		users:       users,
	}
}

// Login runs exchange → profile → domain check → user lookup → token. Every
// failure is reported as 401 "Unauthorized"; the cause is only logged.
func (l *OAuthLogin) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	unauthorized := domain.Unauthorized("Unauthorized")

	if req.Code == "" {
		return nil, unauthorized
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = l.config.GoogleClientID
	}
	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: l.config.GoogleClientSecret,
		RedirectURL:  req.RedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: l.endpoint,
	}

	token, err := oauthCfg.Exchange(ctx, req.Code)
	if err != nil {
		logger.Warn("auth: code exchange failed", "error", err)
		return nil, unauthorized
	}

	profile, err := l.getUserInfo(ctx, oauthCfg.Client(ctx, token))
	if err != nil {
		logger.Warn("auth: profile fetch failed", "error", err)
		return nil, unauthorized
	}

	if !l.domainAllowed(profile.Email) {
		logger.Warn("auth: domain not allowed", "email", profile.Email, "allowed", l.config.AllowedDomain)
		return nil, unauthorized
	}

	user, err := l.users.GetByEmail(ctx, strings.ToLower(profile.Email))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Error("auth: user lookup failed", "error", err)
		}
		return nil, unauthorized
	}

	signed, err := l.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}

	logger.Info("auth: user logged in", "email", user.Email)
	return &LoginResponse{Token: signed, Profile: profile, User: user}, nil
}

// HandleLogin serves POST /auth.
func (l *OAuthLogin) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}

	resp, err := l.Login(r.Context(), req)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			httputil.Unauthorized(w, de.Message)
			return
		}
		httputil.InternalError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-cache, no-store")
	httputil.OK(w, resp)
}

func (l *OAuthLogin) domainAllowed(email string) bool {
	_, emailDomain, ok := strings.Cut(email, "@")
	if !ok || emailDomain == "" {
		return false
	}
	if l.config.AllowedDomain == "" {
		return true
	}
	return strings.EqualFold(emailDomain, l.config.AllowedDomain)
}

// getUserInfo fetches the user's profile with the exchanged bearer token
func (l *OAuthLogin) getUserInfo(ctx context.Context, client *http.Client) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo API error (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if userInfo.Error != "" {
		return nil, fmt.Errorf("userinfo API error: %s", userInfo.Error)
	}
	if userInfo.Email == "" {
		return nil, errors.New("profile has no email")
	}

	return &userInfo, nil
}
