package repository

import (
	"context"

	"github.com/turtacn/fedicore/internal/domain/models"
)

// UserRepository resolves local accounts, minting key material on first access.
// Implementations must return the identical keypair for every call with the same
// username once any call has returned.
type UserRepository interface {
	GetOrCreate(ctx context.Context, username string) (*models.User, error)
}

// KeyStore is a concurrent username -> User map with single-writer insertion.
type KeyStore interface {
	// Get returns the cached user, if any. Concurrent Gets must not block each other.
	Get(username string) (*models.User, bool)

	// GetOrInsert stores user unless an entry already exists and returns the entry that
	// is cached after the call. loaded is true when an earlier entry won.
	GetOrInsert(username string, user *models.User) (actual *models.User, loaded bool)

	// Len reports the number of cached users.
	Len() int
}
