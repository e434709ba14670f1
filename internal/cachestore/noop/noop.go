package noop

import (
	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/models"
)

// Ensure Storage implements interfaces.Storage
var _ interfaces.Storage = (*Storage)(nil)

// Storage is a no-operation storage for disabled backends
type Storage struct{}

// NewStorage creates a new no-operation storage instance
func NewStorage() *Storage {
	return &Storage{}
}

// Open returns a store that never holds anything.
func (s *Storage) Open(name string) (interfaces.Store, error) {
	return &Store{}, nil
}

// Names always returns no generations.
func (s *Storage) Names() ([]string, error) {
	return nil, nil
}

// Remove does nothing.
func (s *Storage) Remove(name string) error {
	return nil
}

// Close does nothing.
func (s *Storage) Close() error {
	return nil
}

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store is a no-operation store implementation
type Store struct{}

// Match always returns a miss.
func (st *Store) Match(key string) (*models.StoredResponse, bool) {
	return nil, false
}

// Put does nothing
func (st *Store) Put(key string, resp *models.StoredResponse) error {
	return nil
}

// Delete does nothing
func (st *Store) Delete(key string) {
	// No-op
}
