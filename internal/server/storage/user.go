package storage

import (
	"context"
	"time"

	"github.com/lockmart/lockmart/internal/models"
)

// UserStorage defines interface for user data persistence
type UserStorage interface {
	// CreateUser creates a new user.
	// Returns ErrEmailTaken if the email is already registered.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves user by (normalized) email.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// GetUserByResetHash retrieves the user holding the given
	// password-reset token hash. Returns ErrUserNotFound on miss.
	GetUserByResetHash(ctx context.Context, hash string) (*models.User, error)

	// ListUsers returns all users, newest first
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateProfile updates name and phone.
	// Returns ErrUserNotFound if user doesn't exist.
	UpdateProfile(ctx context.Context, userID, name, phone string) error

	// UpdateRoles replaces the role flags and temporary-admin expiry
	UpdateRoles(ctx context.Context, userID string, isAdmin, isBusiness bool, adminUntil *time.Time) error

	// UpdateLoginState records a login or logout event
	UpdateLoginState(ctx context.Context, userID string, lastLogin *time.Time, online bool) error

	// SetResetToken stores the password-reset token hash and expiry.
	// Empty hash with nil expiry clears the pending reset.
	SetResetToken(ctx context.Context, userID, hash string, expires *time.Time) error

	// UpdatePassword replaces the password hash
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// DeleteUser removes the user record (explicit admin action only)
	DeleteUser(ctx context.Context, userID string) error
}
