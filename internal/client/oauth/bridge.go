package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/lockmart/lockmart/pkg/api"
)

const (
	defaultTimeout      = 2 * time.Minute
	defaultPollInterval = time.Second
	defaultMaxPolls     = 120
	defaultWakeRetries  = 5
	defaultWakeBase     = 500 * time.Millisecond
)

var (
	// ErrTimeout means the consent flow did not finish in time
	ErrTimeout = errors.New("sign-in timed out")
	// ErrBrowserClosed means the browser went away before finishing
	ErrBrowserClosed = errors.New("browser closed before sign-in finished")
	// ErrDeclined means the provider or the user declined the request
	ErrDeclined = errors.New("sign-in was declined")
)

// HealthClient is the slice of the API client the bridge needs
type HealthClient interface {
	Health(ctx context.Context) error
	BaseURL() string
}

// Browser launches the system browser and tracks its process
type Browser interface {
	Open(url string) (Process, error)
}

// Process is a handle on the launched browser
type Process interface {
	// Alive reports whether the process still runs. An error means
	// the check itself failed and is treated as inconclusive.
	Alive() (bool, error)
}

// Result is a completed sign-in
type Result struct {
	Token string
	User  *api.User
}

// Bridge drives the browser-based provider sign-in from the CLI. It
// wakes the backend, opens the consent page with a loopback callback
// address, and waits for the redirect to deliver the token. Callback
// requests that do not carry the expected tag, or that have no
// recognized message shape, are dropped.
type Bridge struct {
	logger       *slog.Logger
	client       HealthClient
	browser      Browser
	timeout      time.Duration
	pollInterval time.Duration
	maxPolls     int
	wakeRetries  uint64
	wakeBase     time.Duration
	// fallback is called with the consent URL when the browser cannot
	// be launched, so the user can open it by hand
	fallback func(authURL string)
}

// Option configures the bridge
type Option func(*Bridge)

// WithTimeout overrides the overall flow deadline
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithLivenessPolling overrides how the browser process is watched
func WithLivenessPolling(interval time.Duration, maxPolls int) Option {
	return func(b *Bridge) {
		b.pollInterval = interval
		b.maxPolls = maxPolls
	}
}

// WithWakeBackoff overrides the wake-up probe schedule
func WithWakeBackoff(base time.Duration, retries uint64) Option {
	return func(b *Bridge) {
		b.wakeBase = base
		b.wakeRetries = retries
	}
}

// WithFallback sets the handler for a failed browser launch
func WithFallback(f func(authURL string)) Option {
	return func(b *Bridge) { b.fallback = f }
}

// New creates a bridge
func New(logger *slog.Logger, client HealthClient, browser Browser, opts ...Option) *Bridge {
	b := &Bridge{
		logger:       logger,
		client:       client,
		browser:      browser,
		timeout:      defaultTimeout,
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
		wakeRetries:  defaultWakeRetries,
		wakeBase:     defaultWakeBase,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SignIn runs the full provider flow and returns the issued session
func (b *Bridge) SignIn(ctx context.Context) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.wakeServer(ctx); err != nil {
		return nil, fmt.Errorf("server is not reachable: %w", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to open callback listener: %w", err)
	}
	defer func() {
		_ = listener.Close()
	}()

	// The tag binds the callback to this sign-in attempt; requests on
	// any other path are dropped
	tag := uuid.New().String()
	callbackPath := "/callback/" + tag
	redirectURI := fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)

	resultCh := make(chan *api.OAuthMessage, 1)
	var deliver sync.Once

	server := &http.Server{Handler: b.callbackHandler(callbackPath, &deliver, resultCh)}
	go func() {
		_ = server.Serve(listener)
	}()
	defer func() {
		_ = server.Close()
	}()

	authURL := fmt.Sprintf("%s/api/auth/google?redirect_uri=%s", b.client.BaseURL(), url.QueryEscape(redirectURI))

	process, err := b.browser.Open(authURL)
	if err != nil {
		b.logger.Warn("failed to launch browser", "error", err)
		if b.fallback != nil {
			b.fallback(authURL)
		}
		process = nil
	}

	return b.await(ctx, process, resultCh)
}

// wakeServer probes the health endpoint until the backend answers.
// Hosted backends may be cold-started and need a few seconds.
func (b *Bridge) wakeServer(ctx context.Context) error {
	attempt := 0
	backoff := retry.WithMaxRetries(b.wakeRetries, retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return time.Duration(attempt) * b.wakeBase, false
	}))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := b.client.Health(ctx); err != nil {
			b.logger.Debug("wake-up probe failed, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// callbackHandler turns the redirect query into an OAuthMessage.
// Only the tagged path resolves the flow, only once.
func (b *Bridge) callbackHandler(callbackPath string, deliver *sync.Once, resultCh chan<- *api.OAuthMessage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != callbackPath {
			b.logger.Debug("dropping unexpected callback request", "path", r.URL.Path)
			http.NotFound(w, r)
			return
		}

		msg := messageFromQuery(r.URL.Query())
		if msg == nil {
			b.logger.Debug("dropping callback with unrecognized payload")
			http.NotFound(w, r)
			return
		}

		deliver.Do(func() {
			resultCh <- msg
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, "<html><body>Sign-in complete. You can close this window.</body></html>")
	})
}

// messageFromQuery maps the redirect parameters onto the message
// shape; anything unrecognizable is dropped (nil)
func messageFromQuery(q url.Values) *api.OAuthMessage {
	if errMsg := q.Get("error"); errMsg != "" {
		return &api.OAuthMessage{Type: api.OAuthError, Message: errMsg}
	}

	token := q.Get("token")
	userJSON := q.Get("user")
	if token == "" || userJSON == "" {
		return nil
	}

	user := &api.User{}
	if err := json.Unmarshal([]byte(userJSON), user); err != nil {
		return nil
	}

	return &api.OAuthMessage{Type: api.OAuthSuccess, Token: token, User: user}
}

// await waits for the callback, the deadline, or the browser dying
func (b *Bridge) await(ctx context.Context, process Process, resultCh <-chan *api.OAuthMessage) (*Result, error) {
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	polls := 0
	for {
		select {
		case msg := <-resultCh:
			if msg.Type == api.OAuthError {
				return nil, fmt.Errorf("%w: %s", ErrDeclined, msg.Message)
			}
			return &Result{Token: msg.Token, User: msg.User}, nil

		case <-ctx.Done():
			return nil, ErrTimeout

		case <-ticker.C:
			if process == nil {
				continue
			}
			polls++
			if polls > b.maxPolls {
				continue
			}

			alive, err := process.Alive()
			if err != nil {
				// Inconclusive; keep waiting
				continue
			}
			if !alive {
				// The redirect may have landed in the same instant
				select {
				case msg := <-resultCh:
					if msg.Type == api.OAuthError {
						return nil, fmt.Errorf("%w: %s", ErrDeclined, msg.Message)
					}
					return &Result{Token: msg.Token, User: msg.User}, nil
				default:
				}
				return nil, ErrBrowserClosed
			}
		}
	}
}
