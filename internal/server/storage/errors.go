package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates that a user with this email already exists
	ErrEmailTaken = errors.New("email already taken")

	// ErrProductNotFound indicates that product was not found
	ErrProductNotFound = errors.New("product not found")

	// ErrArticleNotFound indicates that article was not found
	ErrArticleNotFound = errors.New("article not found")
)
