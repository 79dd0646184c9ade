package watchdog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLead is how long before token expiry the renewal warning fires
const DefaultLead = 5 * time.Minute

// State of the expiry watchdog
type State int

const (
	// StateIdle means no valid token is being watched
	StateIdle State = iota
	// StateScheduled means a warning timer is armed
	StateScheduled
	// StateWarningShown means the renewal prompt is in front of the user
	StateWarningShown
	// StateRenewed means the session was refreshed after a warning
	StateRenewed
	// StateLoggedOut means the session ended after a warning
	StateLoggedOut
)

// Prompter asks the user whether to extend the session. Returning true
// means renew; false means sign out.
type Prompter interface {
	PromptRenewal(ctx context.Context) bool
}

// Actions are the session operations the watchdog drives
type Actions interface {
	Refresh(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

// Watchdog watches the access token's expiry and warns the user ahead
// of time. The expiry is read from the token without verifying the
// signature; the server remains the authority on validity. A token
// that cannot be decoded arms no timer at all.
type Watchdog struct {
	logger   *slog.Logger
	actions  Actions
	prompter Prompter
	lead     time.Duration

	mu    sync.Mutex
	state State
	timer *time.Timer
}

// Option configures the watchdog
type Option func(*Watchdog)

// WithLead overrides the warning lead time
func WithLead(d time.Duration) Option {
	return func(w *Watchdog) {
		if d > 0 {
			w.lead = d
		}
	}
}

// New creates a watchdog
func New(logger *slog.Logger, actions Actions, prompter Prompter, opts ...Option) *Watchdog {
	w := &Watchdog{
		logger:   logger,
		actions:  actions,
		prompter: prompter,
		lead:     DefaultLead,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch (re)arms the watchdog for the given token. A token that is
// already inside the warning window, or past expiry, triggers the
// prompt immediately.
func (w *Watchdog) Watch(ctx context.Context, token string) {
	w.mu.Lock()
	w.stopTimerLocked()

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		w.state = StateIdle
		w.mu.Unlock()
		w.logger.Debug("token has no readable expiry, watchdog idle")
		return
	}

	delay := time.Until(claims.ExpiresAt.Time.Add(-w.lead))
	if delay <= 0 {
		w.state = StateWarningShown
		w.mu.Unlock()
		w.warn(ctx)
		return
	}

	w.state = StateScheduled
	w.timer = time.AfterFunc(delay, func() {
		w.mu.Lock()
		if w.state != StateScheduled {
			w.mu.Unlock()
			return
		}
		w.state = StateWarningShown
		w.mu.Unlock()
		w.warn(ctx)
	})
	w.mu.Unlock()

	w.logger.Debug("expiry warning scheduled", "in", delay)
}

// CheckNow fires a scheduled warning immediately. It does nothing
// unless a warning is currently armed.
func (w *Watchdog) CheckNow(ctx context.Context) {
	w.mu.Lock()
	if w.state != StateScheduled {
		w.mu.Unlock()
		return
	}
	w.stopTimerLocked()
	w.state = StateWarningShown
	w.mu.Unlock()
	w.warn(ctx)
}

// Stop disarms the watchdog
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimerLocked()
	w.state = StateIdle
}

// State returns the current state
func (w *Watchdog) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watchdog) stopTimerLocked() {
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// warn runs the renewal prompt and acts on the answer. Declining ends
// the session. A failed refresh keeps the session: the failure may be
// transient, and the user can retry, so forced logout would be
// punitive.
func (w *Watchdog) warn(ctx context.Context) {
	if w.prompter.PromptRenewal(ctx) {
		token, err := w.actions.Refresh(ctx)
		if err == nil {
			w.setState(StateRenewed)
			w.Watch(ctx, token)
			return
		}
		// Re-arm so a later expiry signal can prompt again. No timer is
		// needed: the token is already inside the warning window.
		w.logger.Warn("session renewal failed, keeping the current session", "error", err)
		w.setState(StateScheduled)
		return
	}

	if err := w.actions.Logout(ctx); err != nil {
		w.logger.Warn("logout failed", "error", err)
	}
	w.setState(StateLoggedOut)
}

func (w *Watchdog) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}
