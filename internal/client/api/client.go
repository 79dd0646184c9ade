package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lockmart/lockmart/internal/client/session"
	"github.com/lockmart/lockmart/pkg/api"
)

// TokenSource supplies the cached access token for authenticated calls
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// APIError is a non-2xx server response
type APIError struct {
	StatusCode int
	ErrorText  string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.ErrorText)
}

// tokenRelated reports whether the error is a 401 caused by the access
// token itself, as opposed to wrong credentials
func (e *APIError) tokenRelated() bool {
	return e.StatusCode == http.StatusUnauthorized &&
		strings.Contains(strings.ToLower(e.Message), "token")
}

// Client wraps HTTP access to the storefront server. Authenticated
// requests get the cached bearer token injected; a token-related 401
// broadcasts EventTokenExpired on the bus, unless a refresh is already
// in flight or the failing request is itself the refresh call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	bus        *session.Bus
	guard      *session.RefreshGuard
}

// NewClient creates an API client. tokens, bus and guard may be shared
// with the auth service and the expiry watchdog.
func NewClient(baseURL string, tokens TokenSource, bus *session.Bus, guard *session.RefreshGuard) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		bus:     bus,
		guard:   guard,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the configured server address
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	authenticated bool
	// overrideToken carries an explicit bearer token (refresh, logout)
	overrideToken string
	// suppressExpiryBroadcast keeps a 401 on this request from
	// publishing tokenExpired. Set on the refresh call itself (a failing
	// refresh must not trigger another refresh) and on logout (the
	// session is being discarded anyway).
	suppressExpiryBroadcast bool
}

// Register creates an account
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, &resp, requestOptions{}); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &resp, requestOptions{}); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Refresh exchanges the old token for a fresh one. The old token may
// already be expired; the server accepts any authentic token.
func (c *Client) Refresh(ctx context.Context, oldToken string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	opts := requestOptions{overrideToken: oldToken, suppressExpiryBroadcast: true}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/refresh", nil, &resp, opts); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// Logout notifies the server. Callers treat failures as non-fatal and
// clear the local session regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	opts := requestOptions{overrideToken: token, suppressExpiryBroadcast: true}
	return c.doRequest(ctx, http.MethodPost, "/api/auth/logout", nil, nil, opts)
}

// RequestPasswordReset asks the server to mail a reset link
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := api.PasswordResetRequest{Email: email}
	return c.doRequest(ctx, http.MethodPost, "/api/auth/password-reset", req, nil, requestOptions{})
}

// ConfirmPasswordReset sets a new password using a mailed token
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, password string) error {
	req := api.PasswordResetConfirmRequest{Token: token, Password: password}
	return c.doRequest(ctx, http.MethodPost, "/api/auth/password-reset/confirm", req, nil, requestOptions{})
}

// Me returns the caller's profile
func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/users/me", nil, &resp, requestOptions{authenticated: true}); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// UpdateMe edits the caller's profile
func (c *Client) UpdateMe(ctx context.Context, req api.ProfileUpdateRequest) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodPut, "/api/users/me", req, &resp, requestOptions{authenticated: true}); err != nil {
		return nil, fmt.Errorf("profile update failed: %w", err)
	}
	return &resp, nil
}

// ListProducts returns the catalog, optionally filtered by category
func (c *Client) ListProducts(ctx context.Context, category string) ([]api.Product, error) {
	path := "/api/products"
	if category != "" {
		path += "?category=" + category
	}

	var resp []api.Product
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp, requestOptions{}); err != nil {
		return nil, fmt.Errorf("product list request failed: %w", err)
	}
	return resp, nil
}

// GetProduct returns one catalog entry
func (c *Client) GetProduct(ctx context.Context, id string) (*api.Product, error) {
	var resp api.Product
	if err := c.doRequest(ctx, http.MethodGet, "/api/products/"+id, nil, &resp, requestOptions{}); err != nil {
		return nil, fmt.Errorf("product request failed: %w", err)
	}
	return &resp, nil
}

// ListArticles returns the learning-content index
func (c *Client) ListArticles(ctx context.Context) ([]api.Article, error) {
	var resp []api.Article
	if err := c.doRequest(ctx, http.MethodGet, "/api/articles", nil, &resp, requestOptions{}); err != nil {
		return nil, fmt.Errorf("article list request failed: %w", err)
	}
	return resp, nil
}

// GetArticle returns one learning-content entry
func (c *Client) GetArticle(ctx context.Context, id string) (*api.Article, error) {
	var resp api.Article
	if err := c.doRequest(ctx, http.MethodGet, "/api/articles/"+id, nil, &resp, requestOptions{}); err != nil {
		return nil, fmt.Errorf("article request failed: %w", err)
	}
	return &resp, nil
}

// CreateLead submits the lead-capture form
func (c *Client) CreateLead(ctx context.Context, req api.LeadRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/api/leads", req, nil, requestOptions{})
}

// CreateContact submits the contact form
func (c *Client) CreateContact(ctx context.Context, req api.ContactRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/api/contact", req, nil, requestOptions{})
}

// Health probes the server. The OAuth bridge uses this as its wake-up
// call against a cold backend.
func (c *Client) Health(ctx context.Context) error {
	return c.doRequest(ctx, http.MethodGet, "/api/health", nil, nil, requestOptions{})
}

// ListUsers returns all accounts (admin)
func (c *Client) ListUsers(ctx context.Context) ([]api.User, error) {
	var resp []api.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/admin/users", nil, &resp, requestOptions{authenticated: true}); err != nil {
		return nil, fmt.Errorf("user list request failed: %w", err)
	}
	return resp, nil
}

// UpdateUserRoles changes another user's role flags (admin)
func (c *Client) UpdateUserRoles(ctx context.Context, userID string, req api.RoleUpdateRequest) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodPut, "/api/admin/users/"+userID+"/roles", req, &resp, requestOptions{authenticated: true}); err != nil {
		return nil, fmt.Errorf("role update failed: %w", err)
	}
	return &resp, nil
}

// DeleteUser removes an account (admin)
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/admin/users/"+userID, nil, nil, requestOptions{authenticated: true})
}

// CreateProduct adds a catalog entry (admin)
func (c *Client) CreateProduct(ctx context.Context, req api.ProductRequest) (*api.Product, error) {
	var resp api.Product
	if err := c.doRequest(ctx, http.MethodPost, "/api/admin/products", req, &resp, requestOptions{authenticated: true}); err != nil {
		return nil, fmt.Errorf("product create failed: %w", err)
	}
	return &resp, nil
}

// ListLeads returns captured leads (admin)
func (c *Client) ListLeads(ctx context.Context) ([]api.Lead, error) {
	var resp []api.Lead
	if err := c.doRequest(ctx, http.MethodGet, "/api/admin/leads", nil, &resp, requestOptions{authenticated: true}); err != nil {
		return nil, fmt.Errorf("lead list request failed: %w", err)
	}
	return resp, nil
}

// doRequest performs an HTTP round trip and decodes the result
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}, opts requestOptions) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if opts.overrideToken != "" {
		req.Header.Set("Authorization", "Bearer "+opts.overrideToken)
	} else if opts.authenticated {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				return fmt.Errorf("not signed in")
			}
			return fmt.Errorf("failed to load token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.ErrorText = errResp.Error
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = string(respBody)
		}

		c.maybeBroadcastExpiry(apiErr, opts)

		return apiErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// maybeBroadcastExpiry publishes EventTokenExpired for a token-related
// 401. Refresh and logout never broadcast, and neither does any
// request failing while a refresh is already in flight.
func (c *Client) maybeBroadcastExpiry(apiErr *APIError, opts requestOptions) {
	if c.bus == nil || opts.suppressExpiryBroadcast || !apiErr.tokenRelated() {
		return
	}
	if c.guard != nil && c.guard.InFlight() {
		return
	}
	c.bus.PublishEvent(session.Event{
		Name:    session.EventTokenExpired,
		Status:  apiErr.StatusCode,
		Message: apiErr.Message,
	})
}
