package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/metrics"
	"go-offline-gateway/internal/models"
)

// Ensure Storage implements interfaces.Storage
var _ interfaces.Storage = (*Storage)(nil)

// Storage manages named in-memory store generations, one BigCache instance
// per open name.
type Storage struct {
	mu     sync.Mutex
	sizeMB int
	logger *zap.Logger
	stores map[string]*Store
}

// NewStorage creates an in-memory storage with a per-store size limit in MB.
func NewStorage(sizeMB int, logger *zap.Logger) *Storage {
	return &Storage{
		sizeMB: sizeMB,
		logger: logger,
		stores: make(map[string]*Store),
	}
}

// Open returns the store for a generation name, creating it if needed.
func (s *Storage) Open(name string) (interfaces.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[name]; ok {
		return store, nil
	}

	cfg := bigcache.DefaultConfig(24 * time.Hour)
	cfg.HardMaxCacheSize = s.sizeMB
	cfg.MaxEntrySize = 1024 * 1024 // 1MB max entry size
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	store := &Store{
		name:   name,
		cache:  cache,
		logger: s.logger,
	}
	s.stores[name] = store

	metrics.UpdateMemoryCapacity(int64(cache.Capacity()))
	metrics.UpdateStoreEntries("memory", name, 0)

	return store, nil
}

// Names lists every open generation name.
func (s *Storage) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.stores))
	for name := range s.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Remove closes and forgets a whole generation.
func (s *Storage) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[name]
	if !ok {
		return nil
	}
	delete(s.stores, name)
	metrics.ForgetStoreEntries("memory", name)
	return store.cache.Close()
}

// Close releases every open store.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, store := range s.stores {
		if err := store.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.stores, name)
		metrics.ForgetStoreEntries("memory", name)
	}
	return firstErr
}

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store is one in-memory generation backed by BigCache.
type Store struct {
	name   string
	cache  *bigcache.BigCache
	logger *zap.Logger
}

// Match retrieves the stored response for a request key.
func (st *Store) Match(key string) (*models.StoredResponse, bool) {
	defer metrics.TimeStoreOperation("memory", "match")()

	data, err := st.cache.Get(key)
	if err != nil {
		return nil, false
	}

	var resp models.StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		st.logger.Warn("Failed to unmarshal memory store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("memory", "decode")
		_ = st.cache.Delete(key) // Remove corrupted entry
		return nil, false
	}

	return &resp, true
}

// Put stores the response under a request key, overwriting any prior entry.
func (st *Store) Put(key string, resp *models.StoredResponse) error {
	defer metrics.TimeStoreOperation("memory", "put")()

	data, err := json.Marshal(resp)
	if err != nil {
		st.logger.Error("Failed to marshal store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("memory", "encode")
		return err
	}

	if err := st.cache.Set(key, data); err != nil {
		st.logger.Error("Failed to set store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("memory", "upstream")
		return err
	}
	metrics.UpdateStoreEntries("memory", st.name, st.cache.Len())
	return nil
}

// Delete removes the entry for a request key.
func (st *Store) Delete(key string) {
	_ = st.cache.Delete(key)
	metrics.UpdateStoreEntries("memory", st.name, st.cache.Len())
}

// Len returns the number of resident entries, for tests and diagnostics.
func (st *Store) Len() int {
	return st.cache.Len()
}
