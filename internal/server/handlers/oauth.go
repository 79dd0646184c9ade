package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
	"github.com/lockmart/lockmart/internal/validation"
)

const (
	oauthStateCookie    = "oauth_state"
	oauthRedirectCookie = "oauth_redirect"
	oauthCookieTTL      = 10 * time.Minute
)

// OAuthHandler drives the provider consent flow: it redirects the
// browser to the provider, exchanges the returned code, upserts the
// account and hands the issued token back to the client via redirect
// query parameters.
type OAuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	jwtConfig    JWTConfig
	oauthConfig  *oauth2.Config
	userinfoURL  string
	allowedHosts []string // redirect_uri host allow-list
}

// NewOAuthHandler creates a new OAuth handler.
// userinfoURL is the provider's profile endpoint; allowedHosts limits
// where the callback may send the issued token.
func NewOAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, jwtConfig JWTConfig,
	oauthConfig *oauth2.Config, userinfoURL string, allowedHosts []string) *OAuthHandler {
	return &OAuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		jwtConfig:    jwtConfig,
		oauthConfig:  oauthConfig,
		userinfoURL:  userinfoURL,
		allowedHosts: allowedHosts,
	}
}

// providerProfile is the subset of the userinfo payload we consume
type providerProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Start handles GET /api/auth/google.
// It remembers where to deliver the result and redirects to the
// provider consent endpoint.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" || !h.redirectAllowed(redirectURI) {
		h.logger.Warn("oauth start with disallowed redirect_uri", slog.String("redirect_uri", redirectURI))
		sendError(h.logger, w, "redirect_uri is missing or not allowed", http.StatusBadRequest)
		return
	}

	state := uuid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(oauthCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     oauthRedirectCookie,
		Value:    url.QueryEscape(redirectURI),
		Path:     "/",
		Expires:  time.Now().Add(oauthCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /api/auth/google/callback
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	redirectURI := h.redirectFromCookie(r)
	if redirectURI == "" {
		sendError(h.logger, w, "missing oauth redirect cookie", http.StatusBadRequest)
		return
	}

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Warn("oauth provider returned error", slog.String("error", errParam))
		h.redirectError(w, r, redirectURI, "provider declined the request")
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		h.logger.Warn("oauth state mismatch")
		h.redirectError(w, r, redirectURI, "state mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, redirectURI, "missing authorization code")
		return
	}

	providerToken, err := h.oauthConfig.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("oauth code exchange failed", slog.Any("error", err))
		h.redirectError(w, r, redirectURI, "code exchange failed")
		return
	}

	profile, err := h.fetchProfile(ctx, providerToken)
	if err != nil {
		h.logger.Error("failed to fetch provider profile", slog.Any("error", err))
		h.redirectError(w, r, redirectURI, "failed to fetch profile")
		return
	}

	user, err := h.upsertUser(r, profile)
	if err != nil {
		h.logger.Error("failed to upsert oauth user", slog.Any("error", err))
		h.redirectError(w, r, redirectURI, "internal error")
		return
	}

	token, err := GenerateAccessToken(h.jwtConfig, user)
	if err != nil {
		h.logger.Error("failed to generate access token", slog.Any("error", err))
		h.redirectError(w, r, redirectURI, "internal error")
		return
	}

	now := time.Now()
	if err := h.userStorage.UpdateLoginState(ctx, user.ID, &now, true); err != nil {
		h.logger.Warn("failed to update login state", slog.Any("error", err))
	}

	userJSON, err := json.Marshal(toAPIUser(user))
	if err != nil {
		h.logger.Error("failed to marshal user", slog.Any("error", err))
		h.redirectError(w, r, redirectURI, "internal error")
		return
	}

	h.logger.Info("oauth login completed", slog.String("user_id", user.ID), slog.String("email", user.Email))

	target := fmt.Sprintf("%s?token=%s&user=%s",
		redirectURI, url.QueryEscape(token), url.QueryEscape(string(userJSON)))
	http.Redirect(w, r, target, http.StatusFound)
}

// fetchProfile loads the provider profile with the exchanged token
func (h *OAuthHandler) fetchProfile(ctx context.Context, token *oauth2.Token) (*providerProfile, error) {
	client := h.oauthConfig.Client(ctx, token)

	resp, err := client.Get(h.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("userinfo request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, string(body))
	}

	var profile providerProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if profile.Email == "" {
		return nil, errors.New("provider profile has no email")
	}

	return &profile, nil
}

// upsertUser finds the account by provider email or creates it on first login
func (h *OAuthHandler) upsertUser(r *http.Request, profile *providerProfile) (*models.User, error) {
	ctx := r.Context()
	email := validation.NormalizeEmail(profile.Email)

	user, err := h.userStorage.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	name := profile.Name
	if name == "" {
		name = email
	}

	now := time.Now()
	user = &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		IsUser:    true,
		LastLogin: &now,
		IsOnline:  true,
		CreatedAt: now,
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	h.logger.Info("oauth first login, account created", slog.String("user_id", user.ID))
	return user, nil
}

func (h *OAuthHandler) redirectError(w http.ResponseWriter, r *http.Request, redirectURI, message string) {
	target := fmt.Sprintf("%s?error=%s", redirectURI, url.QueryEscape(message))
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *OAuthHandler) redirectFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(oauthRedirectCookie)
	if err != nil {
		return ""
	}
	redirectURI, err := url.QueryUnescape(cookie.Value)
	if err != nil || !h.redirectAllowed(redirectURI) {
		return ""
	}
	return redirectURI
}

// redirectAllowed matches the redirect host against the allow-list.
// Loopback addresses are always allowed for the CLI callback listener.
func (h *OAuthHandler) redirectAllowed(redirectURI string) bool {
	u, err := url.Parse(redirectURI)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	host := u.Hostname()
	if host == "127.0.0.1" || host == "localhost" || host == "::1" {
		return true
	}

	for _, allowed := range h.allowedHosts {
		if allowed != "" && strings.Contains(host, allowed) {
			return true
		}
	}

	return false
}
