// Package keystore holds the process-local cache of account key material.
package keystore

import (
	"github.com/patrickmn/go-cache"

	"github.com/turtacn/fedicore/internal/domain/models"
	"github.com/turtacn/fedicore/internal/domain/repository"
)

var _ repository.KeyStore = (*MemoryKeyStore)(nil)

// MemoryKeyStore keeps users in an in-memory cache with no expiration and no eviction.
// Reads share a read lock; insertion is first-writer-wins.
type MemoryKeyStore struct {
	users *cache.Cache
}

// NewMemoryKeyStore creates an empty store. No janitor goroutine is started.
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{
		users: cache.New(cache.NoExpiration, 0),
	}
}

// Get returns the cached user for username.
func (s *MemoryKeyStore) Get(username string) (*models.User, bool) {
	item, found := s.users.Get(username)
	if !found {
		return nil, false
	}
	return item.(*models.User), true
}

// GetOrInsert stores user unless username is already present and returns the cached entry.
func (s *MemoryKeyStore) GetOrInsert(username string, user *models.User) (*models.User, bool) {
	if err := s.users.Add(username, user, cache.NoExpiration); err == nil {
		return user, false
	}
	// Entries never expire, so a failed Add guarantees a hit.
	existing, _ := s.Get(username)
	return existing, true
}

// Len reports the number of cached users.
func (s *MemoryKeyStore) Len() int {
	return s.users.ItemCount()
}
