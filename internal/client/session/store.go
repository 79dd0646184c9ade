package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/lockmart/lockmart/pkg/api"
)

// ErrNoSession is returned when no session is cached locally
var ErrNoSession = errors.New("no session found")

var (
	bucketSession = []byte("session")
	bucketCart    = []byte("cart")

	keyToken = []byte("auth_token")
	keyUser  = []byte("auth_user")
	keyTheme = []byte("theme-mode")
	keyCart  = []byte("shopping_cart")
)

// Store is the client-side session cache backed by BoltDB. It holds the
// access token, the cached user snapshot, the theme preference and the
// shopping cart. Reads are fail-soft: a missing or corrupt entry reads
// as "not signed in", never as a hard failure.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the client database at dbPath
func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open client db: %w", err)
	}

	store := &Store{db: db}

	if err := store.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return store, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSession); err != nil {
			return fmt.Errorf("failed to create session bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists(bucketCart); err != nil {
			return fmt.Errorf("failed to create cart bucket: %w", err)
		}
		return nil
	})
}

// SaveSession stores the token and the user snapshot together
func (s *Store) SaveSession(ctx context.Context, token string, user *api.User) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if err := bucket.Put(keyToken, []byte(token)); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		if err := bucket.Put(keyUser, userData); err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		return nil
	})
}

// SaveToken replaces the cached token, keeping the user snapshot.
// Used after a refresh.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyToken, []byte(token))
	})
}

// Token returns the cached access token, or ErrNoSession
func (s *Store) Token(ctx context.Context) (string, error) {
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keyToken)
		if data == nil {
			return ErrNoSession
		}
		token = string(data)
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// User returns the cached user snapshot, or ErrNoSession
func (s *Store) User(ctx context.Context) (*api.User, error) {
	var user *api.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSession).Get(keyUser)
		if data == nil {
			return ErrNoSession
		}
		user = &api.User{}
		if err := json.Unmarshal(data, user); err != nil {
			return fmt.Errorf("failed to unmarshal user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Clear removes the cached session. Clearing an already empty store is
// not an error, so repeated logouts stay idempotent.
func (s *Store) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if err := bucket.Delete(keyToken); err != nil {
			return err
		}
		return bucket.Delete(keyUser)
	})
}

// IsAuthenticated reports whether a session is cached. It is purely a
// presence check: the token may already be expired, and the server is
// the final authority either way.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

// SaveTheme stores the UI theme preference ("light" or "dark")
func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSession).Put(keyTheme, []byte(theme))
	})
}

// Theme returns the stored theme preference, defaulting to "light"
func (s *Store) Theme(ctx context.Context) string {
	theme := "light"

	_ = s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketSession).Get(keyTheme); data != nil {
			theme = string(data)
		}
		return nil
	})

	return theme
}

// SaveCart replaces the stored shopping cart
func (s *Store) SaveCart(ctx context.Context, items []api.CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketCart).Put(keyCart, data)
	})
}

// Cart returns the stored shopping cart. A missing or corrupt cart
// reads as empty.
func (s *Store) Cart(ctx context.Context) []api.CartItem {
	var items []api.CartItem

	_ = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketCart).Get(keyCart)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &items); err != nil {
			items = nil
		}
		return nil
	})

	return items
}
