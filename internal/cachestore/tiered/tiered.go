package tiered

import (
	"go.uber.org/zap"

	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/models"
)

// Ensure Storage implements interfaces.Storage
var _ interfaces.Storage = (*Storage)(nil)

// Storage layers multiple storage backends, fastest first. Reads stop at the
// first layer with a hit; writes and generation removals touch every layer.
type Storage struct {
	layers []interfaces.Storage
	logger *zap.Logger
}

// NewStorage creates a tiered storage over the provided layers
func NewStorage(layers []interfaces.Storage, logger *zap.Logger) *Storage {
	return &Storage{
		layers: layers,
		logger: logger,
	}
}

// Open opens the generation in every layer.
func (ts *Storage) Open(name string) (interfaces.Store, error) {
	stores := make([]interfaces.Store, 0, len(ts.layers))
	for _, layer := range ts.layers {
		store, err := layer.Open(name)
		if err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return &Store{stores: stores, logger: ts.logger}, nil
}

// Names returns the union of generation names across layers.
func (ts *Storage) Names() ([]string, error) {
	seen := make(map[string]struct{})
	var names []string
	var firstErr error

	for _, layer := range ts.layers {
		layerNames, err := layer.Names()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for _, name := range layerNames {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	if len(names) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return names, nil
}

// Remove removes the generation from every layer. A failing layer does not
// block removal from the others; the first error is reported.
func (ts *Storage) Remove(name string) error {
	var firstErr error
	for _, layer := range ts.layers {
		if err := layer.Remove(name); err != nil {
			ts.logger.Warn("Failed to remove generation from layer",
				zap.String("generation", name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close closes every layer.
func (ts *Storage) Close() error {
	var firstErr error
	for _, layer := range ts.layers {
		if err := layer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store is one generation spread across the storage layers.
type Store struct {
	stores []interfaces.Store
	logger *zap.Logger
}

// Match returns the entry from the first layer that has it.
func (st *Store) Match(key string) (*models.StoredResponse, bool) {
	for _, store := range st.stores {
		if resp, found := store.Match(key); found {
			return resp, true
		}
	}
	return nil, false
}

// Put stores the entry in every layer. Per-layer failures are logged by the
// layer itself; the first error is reported so detached writers can count it.
func (st *Store) Put(key string, resp *models.StoredResponse) error {
	var firstErr error
	for _, store := range st.stores {
		if err := store.Put(key, resp); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Delete removes the entry from every layer.
func (st *Store) Delete(key string) {
	for _, store := range st.stores {
		store.Delete(key)
	}
}
