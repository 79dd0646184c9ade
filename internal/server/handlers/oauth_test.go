package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/lockmart/lockmart/pkg/api"
)

// fakeProvider stands in for the OAuth provider: it serves the token
// exchange and the userinfo endpoints
func fakeProvider(t *testing.T, email, name string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-access-token","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"email": email, "name": name})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newOAuthHandler(store *fakeUserStorage, provider *httptest.Server) *OAuthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.URL + "/auth",
			TokenURL: provider.URL + "/token",
		},
	}

	return NewOAuthHandler(logger, store, testConfig(), cfg, provider.URL+"/userinfo", []string{"shop.example.com"})
}

// startFlow runs the Start handler and returns the state plus the
// cookies the browser would carry to the callback
func startFlow(t *testing.T, h *OAuthHandler, redirectURI string) (string, []*http.Cookie) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google?redirect_uri="+url.QueryEscape(redirectURI), nil)
	w := httptest.NewRecorder()
	h.Start(w, req)

	require.Equal(t, http.StatusFound, w.Code)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	require.NotEmpty(t, state)

	return state, w.Result().Cookies()
}

func callbackRequest(target string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestOAuthHandler_Start(t *testing.T) {
	provider := fakeProvider(t, "dana@example.com", "Dana")

	t.Run("redirects to provider with state and redirect cookies", func(t *testing.T) {
		h := newOAuthHandler(newFakeUserStorage(), provider)

		state, cookies := startFlow(t, h, "http://127.0.0.1:53171/callback")

		assert.NotEmpty(t, state)

		names := make(map[string]bool)
		for _, c := range cookies {
			names[c.Name] = true
		}
		assert.True(t, names[oauthStateCookie])
		assert.True(t, names[oauthRedirectCookie])
	})

	t.Run("rejects a disallowed redirect_uri", func(t *testing.T) {
		h := newOAuthHandler(newFakeUserStorage(), provider)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google?redirect_uri="+url.QueryEscape("https://evil.example.net/steal"), nil)
		w := httptest.NewRecorder()
		h.Start(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects a missing redirect_uri", func(t *testing.T) {
		h := newOAuthHandler(newFakeUserStorage(), provider)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google", nil)
		w := httptest.NewRecorder()
		h.Start(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOAuthHandler_Callback(t *testing.T) {
	const redirectURI = "http://127.0.0.1:53171/callback"

	t.Run("first login creates the account and delivers a token", func(t *testing.T) {
		provider := fakeProvider(t, "dana@example.com", "Dana")
		store := newFakeUserStorage()
		h := newOAuthHandler(store, provider)

		state, cookies := startFlow(t, h, redirectURI)

		req := callbackRequest("/api/auth/google/callback?code=auth-code&state="+state, cookies)
		w := httptest.NewRecorder()
		h.Callback(w, req)

		require.Equal(t, http.StatusFound, w.Code)

		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:53171", location.Host)
		assert.Empty(t, location.Query().Get("error"))

		token := location.Query().Get("token")
		require.NotEmpty(t, token)

		claims, err := ValidateAccessToken(testConfig(), token)
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", claims.Email)

		var user api.User
		require.NoError(t, json.Unmarshal([]byte(location.Query().Get("user")), &user))
		assert.Equal(t, "Dana", user.Name)
		assert.True(t, user.IsUser)

		stored, err := store.GetUserByEmail(context.Background(), "dana@example.com")
		require.NoError(t, err)
		assert.Empty(t, stored.PasswordHash, "OAuth-only accounts carry no password hash")
		assert.True(t, stored.IsOnline)
	})

	t.Run("returning user keeps the existing account", func(t *testing.T) {
		provider := fakeProvider(t, "a@b.com", "Dana")
		store := newFakeUserStorage()
		existing := seedUser(t, store, "a@b.com", "Secret1!")
		h := newOAuthHandler(store, provider)

		state, cookies := startFlow(t, h, redirectURI)

		req := callbackRequest("/api/auth/google/callback?code=auth-code&state="+state, cookies)
		w := httptest.NewRecorder()
		h.Callback(w, req)

		require.Equal(t, http.StatusFound, w.Code)

		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)

		claims, err := ValidateAccessToken(testConfig(), location.Query().Get("token"))
		require.NoError(t, err)
		assert.Equal(t, existing.ID, claims.UserID)

		users, err := store.ListUsers(context.Background())
		require.NoError(t, err)
		assert.Len(t, users, 1, "no duplicate account should be created")
	})

	t.Run("state mismatch redirects with an error", func(t *testing.T) {
		provider := fakeProvider(t, "dana@example.com", "Dana")
		h := newOAuthHandler(newFakeUserStorage(), provider)

		_, cookies := startFlow(t, h, redirectURI)

		req := callbackRequest("/api/auth/google/callback?code=auth-code&state=forged-state", cookies)
		w := httptest.NewRecorder()
		h.Callback(w, req)

		require.Equal(t, http.StatusFound, w.Code)

		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.NotEmpty(t, location.Query().Get("error"))
		assert.Empty(t, location.Query().Get("token"))
	})

	t.Run("provider error redirects with an error", func(t *testing.T) {
		provider := fakeProvider(t, "dana@example.com", "Dana")
		h := newOAuthHandler(newFakeUserStorage(), provider)

		state, cookies := startFlow(t, h, redirectURI)

		req := callbackRequest("/api/auth/google/callback?error=access_denied&state="+state, cookies)
		w := httptest.NewRecorder()
		h.Callback(w, req)

		require.Equal(t, http.StatusFound, w.Code)

		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.NotEmpty(t, location.Query().Get("error"))
	})

	t.Run("callback without cookies is rejected", func(t *testing.T) {
		provider := fakeProvider(t, "dana@example.com", "Dana")
		h := newOAuthHandler(newFakeUserStorage(), provider)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=auth-code&state=abc", nil)
		w := httptest.NewRecorder()
		h.Callback(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOAuthHandler_RedirectAllowed(t *testing.T) {
	provider := fakeProvider(t, "dana@example.com", "Dana")
	h := newOAuthHandler(newFakeUserStorage(), provider)

	tests := []struct {
		uri     string
		allowed bool
	}{
		{"http://127.0.0.1:53171/callback", true},
		{"http://localhost:3000/callback", true},
		{"https://shop.example.com/auth/done", true},
		{"https://evil.example.net/steal", false},
		{"ftp://localhost/callback", false},
		{"not a url at all://", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, h.redirectAllowed(tt.uri), "uri %q", tt.uri)
	}
}

func TestOAuthHandler_UpsertUser_StorageError(t *testing.T) {
	provider := fakeProvider(t, "dana@example.com", "Dana")
	store := newFakeUserStorage()
	h := newOAuthHandler(store, provider)

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	user, err := h.upsertUser(req, &providerProfile{Email: "Dana@Example.COM", Name: ""})
	require.NoError(t, err)

	assert.Equal(t, "dana@example.com", user.Email, "email should be normalized")
	assert.Equal(t, "dana@example.com", user.Name, "missing name falls back to email")
	assert.True(t, user.IsUser)
}
