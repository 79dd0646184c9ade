package models

import "time"

// User represents a storefront account as persisted server-side
type User struct {
	ID           string     `json:"id"`            // UUID
	Name         string     `json:"name"`          // display name
	Email        string     `json:"email"`         // unique, lowercase
	Phone        string     `json:"phone"`         // optional national mobile number
	PasswordHash string     `json:"password_hash"` // bcrypt; empty for OAuth-only accounts
	IsAdmin      bool       `json:"is_admin"`
	IsBusiness   bool       `json:"is_business"`
	IsUser       bool       `json:"is_user"`
	AdminUntil   *time.Time `json:"admin_until"` // temporary-admin expiry, nil = permanent
	LastLogin    *time.Time `json:"last_login"`
	IsOnline     bool       `json:"is_online"`
	ResetHash    string     `json:"reset_hash"` // sha256 of password-reset token
	ResetExpires *time.Time `json:"reset_expires"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AdminNow reports whether the user holds admin rights at the given
// instant, accounting for a temporary-admin expiry.
func (u *User) AdminNow(now time.Time) bool {
	if !u.IsAdmin {
		return false
	}
	if u.AdminUntil == nil {
		return true
	}
	return now.Before(*u.AdminUntil)
}
