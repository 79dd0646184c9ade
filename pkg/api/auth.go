package api

// User is the public profile snapshot returned by auth endpoints
// and cached on the client. It never carries the password hash.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
	IsBusiness bool   `json:"is_business"`
	IsUser     bool   `json:"is_user"`
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login, register and the OAuth callback
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// RefreshResponse is returned by POST /api/auth/refresh
type RefreshResponse struct {
	Token string `json:"token"`
}

// LogoutResponse is always success-shaped, even on partial server failure
type LogoutResponse struct {
	Message string `json:"message"`
}

// PasswordResetRequest is the body of POST /api/auth/password-reset
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest is the body of POST /api/auth/password-reset/confirm
type PasswordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ErrorResponse is the error body shared by all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// OAuth callback message discriminant tags
const (
	OAuthSuccess = "OAUTH_SUCCESS"
	OAuthError   = "OAUTH_ERROR"
)

// OAuthMessage is the cross-process message delivered to the client's
// callback listener when the provider consent flow completes.
// Messages without a recognized Type are dropped.
type OAuthMessage struct {
	Type    string `json:"type"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
	Message string `json:"message,omitempty"`
}
