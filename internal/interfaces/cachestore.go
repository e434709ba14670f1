package interfaces

import (
	"go-offline-gateway/internal/models"
)

// Store is a single named cache generation holding request/response pairs.
type Store interface {
	// Match returns the stored response for a request key, if present.
	Match(key string) (*models.StoredResponse, bool)
	// Put inserts or overwrites the entry for a request key.
	Put(key string, resp *models.StoredResponse) error
	// Delete removes the entry for a request key.
	Delete(key string)
}

// Storage manages named store generations. Exactly one generation is current
// at any time; stale generations are removed on worker activation.
type Storage interface {
	// Open returns the store for a generation name, creating it if needed.
	Open(name string) (Store, error)
	// Names lists every generation currently known to the storage.
	Names() ([]string, error)
	// Remove deletes a whole generation and all its entries.
	Remove(name string) error
	// Close releases backend resources.
	Close() error
}
