package session

import "sync/atomic"

// RefreshGuard serializes token refreshes: while one refresh is in
// flight, further 401s must not trigger another expiry broadcast or a
// concurrent refresh.
type RefreshGuard struct {
	inFlight atomic.Bool
}

// NewRefreshGuard creates a refresh guard
func NewRefreshGuard() *RefreshGuard {
	return &RefreshGuard{}
}

// TryAcquire marks a refresh as in flight. It returns false if another
// refresh already holds the guard.
func (g *RefreshGuard) TryAcquire() bool {
	return g.inFlight.CompareAndSwap(false, true)
}

// Release clears the in-flight mark
func (g *RefreshGuard) Release() {
	g.inFlight.Store(false)
}

// InFlight reports whether a refresh is currently running
func (g *RefreshGuard) InFlight() bool {
	return g.inFlight.Load()
}
