package redisstore

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/klauspost/compress/s2"
	"go.uber.org/zap"

	"go-offline-gateway/internal/config"
	"go-offline-gateway/internal/interfaces"
	"go-offline-gateway/internal/metrics"
	"go-offline-gateway/internal/models"
)

// namesKey is the Redis set tracking which generation names exist.
const namesKey = "worker:generations"

// keySeparator joins a generation name and a request key into one Redis key.
const keySeparator = "|"

// purgeScanCount is the SCAN batch size used when removing a generation.
const purgeScanCount = 200

// Ensure Storage implements interfaces.Storage
var _ interfaces.Storage = (*Storage)(nil)

// Storage manages named store generations in a shared Redis instance.
// A generation name becomes a key prefix; the set of generations lives in a
// Redis set so activation can enumerate and purge stale ones.
type Storage struct {
	client interfaces.RedisClient
	config *config.RedisConfig
	logger *zap.Logger
}

// NewStorage creates a Redis-backed storage with a provided client
func NewStorage(cfg *config.RedisConfig, client interfaces.RedisClient, logger *zap.Logger) *Storage {
	return &Storage{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Open registers a generation name and returns its store.
func (s *Storage) Open(name string) (interfaces.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetWriteTimeout())
	defer cancel()

	if err := s.client.SAdd(ctx, namesKey, name).Err(); err != nil {
		return nil, err
	}

	return &Store{
		name:   name,
		client: s.client,
		config: s.config,
		logger: s.logger,
	}, nil
}

// Names lists every generation registered in the shared instance.
func (s *Storage) Names() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.GetReadTimeout())
	defer cancel()

	names, err := s.client.SMembers(ctx, namesKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Remove purges every entry of a generation and unregisters its name.
// Deletion is batched; the first error aborts the purge so a retry on the
// next activation can pick up where it left off.
func (s *Storage) Remove(name string) error {
	ctx := context.Background()

	var cursor uint64
	pattern := name + keySeparator + "*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, purgeScanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	return s.client.SRem(ctx, namesKey, name).Err()
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Store implements interfaces.Store
var _ interfaces.Store = (*Store)(nil)

// Store is one generation inside the shared Redis instance. Entries are
// JSON-encoded then S2-compressed; they carry no TTL and only disappear with
// whole-generation removal.
type Store struct {
	name   string
	client interfaces.RedisClient
	config *config.RedisConfig
	logger *zap.Logger
}

// Match retrieves the stored response for a request key.
func (st *Store) Match(key string) (*models.StoredResponse, bool) {
	defer metrics.TimeStoreOperation("redis", "match")()

	ctx, cancel := context.WithTimeout(context.Background(), st.config.GetReadTimeout())
	defer cancel()

	data, err := st.client.Get(ctx, st.redisKey(key)).Result()
	if err != nil {
		return nil, false
	}

	decoded, err := s2.Decode(nil, []byte(data))
	if err != nil {
		st.logger.Warn("Failed to decompress Redis store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("redis", "decode")
		st.client.Del(context.Background(), st.redisKey(key))
		return nil, false
	}

	var resp models.StoredResponse
	if err := json.Unmarshal(decoded, &resp); err != nil {
		st.logger.Warn("Failed to unmarshal Redis store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("redis", "decode")
		st.client.Del(context.Background(), st.redisKey(key))
		return nil, false
	}

	return &resp, true
}

// Put stores the response under a request key, overwriting any prior entry.
func (st *Store) Put(key string, resp *models.StoredResponse) error {
	defer metrics.TimeStoreOperation("redis", "put")()

	ctx, cancel := context.WithTimeout(context.Background(), st.config.GetWriteTimeout())
	defer cancel()

	data, err := json.Marshal(resp)
	if err != nil {
		st.logger.Error("Failed to marshal Redis store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("redis", "encode")
		return err
	}

	compressed := s2.Encode(nil, data)

	if err := st.client.Set(ctx, st.redisKey(key), compressed, 0).Err(); err != nil {
		st.logger.Error("Failed to set Redis store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
		metrics.RecordStoreError("redis", "upstream")
		return err
	}
	return nil
}

// Delete removes the entry for a request key.
func (st *Store) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), st.config.GetWriteTimeout())
	defer cancel()

	if err := st.client.Del(ctx, st.redisKey(key)).Err(); err != nil {
		st.logger.Error("Failed to delete Redis store entry",
			zap.String("store", st.name), zap.String("key", key), zap.Error(err))
	}
}

func (st *Store) redisKey(key string) string {
	return st.name + keySeparator + key
}
