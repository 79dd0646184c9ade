package handlers

import "context"

type contextKey string

// Context keys populated by the auth middleware
const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
)

// UserIDFromContext returns the authenticated user ID, if any
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}
