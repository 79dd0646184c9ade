package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
)

const userColumns = `id, name, email, phone, password_hash, is_admin, is_business, is_user,
	admin_until, last_login, is_online, reset_hash, reset_expires, created_at`

// CreateUser creates a new user in the storage
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.IsAdmin,
		user.IsBusiness,
		user.IsUser,
		user.AdminUntil,
		user.LastLogin,
		user.IsOnline,
		user.ResetHash,
		user.ResetExpires,
		user.CreatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return storage.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves user by email
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return s.scanUser(s.db.QueryRowContext(ctx, query, userID))
}

// GetUserByResetHash retrieves the user holding the given reset token hash
func (s *Storage) GetUserByResetHash(ctx context.Context, hash string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_hash = ? AND reset_hash != ''`
	return s.scanUser(s.db.QueryRowContext(ctx, query, hash))
}

// ListUsers returns all users, newest first
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// UpdateProfile updates name and phone
func (s *Storage) UpdateProfile(ctx context.Context, userID, name, phone string) error {
	query := `UPDATE users SET name = ?, phone = ? WHERE id = ?`
	return s.execExpectingUser(ctx, query, name, phone, userID)
}

// UpdateRoles replaces the role flags and temporary-admin expiry
func (s *Storage) UpdateRoles(ctx context.Context, userID string, isAdmin, isBusiness bool, adminUntil *time.Time) error {
	query := `UPDATE users SET is_admin = ?, is_business = ?, admin_until = ? WHERE id = ?`
	return s.execExpectingUser(ctx, query, isAdmin, isBusiness, adminUntil, userID)
}

// UpdateLoginState records a login or logout event
func (s *Storage) UpdateLoginState(ctx context.Context, userID string, lastLogin *time.Time, online bool) error {
	if lastLogin != nil {
		query := `UPDATE users SET last_login = ?, is_online = ? WHERE id = ?`
		return s.execExpectingUser(ctx, query, lastLogin, online, userID)
	}
	query := `UPDATE users SET is_online = ? WHERE id = ?`
	return s.execExpectingUser(ctx, query, online, userID)
}

// SetResetToken stores the password-reset token hash and expiry
func (s *Storage) SetResetToken(ctx context.Context, userID, hash string, expires *time.Time) error {
	query := `UPDATE users SET reset_hash = ?, reset_expires = ? WHERE id = ?`
	return s.execExpectingUser(ctx, query, hash, expires, userID)
}

// UpdatePassword replaces the password hash
func (s *Storage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`
	return s.execExpectingUser(ctx, query, passwordHash, userID)
}

// DeleteUser deletes user by ID
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	query := `DELETE FROM users WHERE id = ?`
	return s.execExpectingUser(ctx, query, userID)
}

// execExpectingUser runs an exec that must affect exactly one user row
func (s *Storage) execExpectingUser(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var adminUntil, lastLogin, resetExpires sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.IsAdmin,
		&user.IsBusiness,
		&user.IsUser,
		&adminUntil,
		&lastLogin,
		&user.IsOnline,
		&user.ResetHash,
		&resetExpires,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if adminUntil.Valid {
		user.AdminUntil = &adminUntil.Time
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	if resetExpires.Valid {
		user.ResetExpires = &resetExpires.Time
	}

	return user, nil
}
