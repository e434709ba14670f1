package redisstore

import (
	"errors"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/klauspost/compress/s2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-offline-gateway/internal/config"
	"go-offline-gateway/internal/interfaces/mock"
	"go-offline-gateway/internal/models"
)

func testRedisConfig() *config.RedisConfig {
	return &config.RedisConfig{
		Enabled:             true,
		ReadTimeoutSeconds:  1,
		WriteTimeoutSeconds: 1,
	}
}

func TestStorage_Open_RegistersGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().SAdd(gomock.Any(), namesKey, "lotto-oracle-v3.0.0").
		Return(redis.NewIntResult(1, nil))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	store, err := storage.Open("lotto-oracle-v3.0.0")

	assert.NoError(t, err)
	assert.NotNil(t, store)
}

func TestStorage_Names_SortsMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().SMembers(gomock.Any(), namesKey).
		Return(redis.NewStringSliceResult([]string{"lotto-oracle-v3.0.0", "lotto-oracle-v2.0.0"}, nil))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	names, err := storage.Names()

	assert.NoError(t, err)
	assert.Equal(t, []string{"lotto-oracle-v2.0.0", "lotto-oracle-v3.0.0"}, names)
}

func TestStorage_Remove_PurgesAllEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)

	// Two scan pages, each deleted, then the name is unregistered
	client.EXPECT().Scan(gomock.Any(), uint64(0), "lotto-oracle-v2.0.0|*", int64(purgeScanCount)).
		Return(redis.NewScanCmdResult([]string{"lotto-oracle-v2.0.0|GET /"}, 7, nil))
	client.EXPECT().Del(gomock.Any(), "lotto-oracle-v2.0.0|GET /").
		Return(redis.NewIntResult(1, nil))
	client.EXPECT().Scan(gomock.Any(), uint64(7), "lotto-oracle-v2.0.0|*", int64(purgeScanCount)).
		Return(redis.NewScanCmdResult([]string{"lotto-oracle-v2.0.0|GET /app.js"}, 0, nil))
	client.EXPECT().Del(gomock.Any(), "lotto-oracle-v2.0.0|GET /app.js").
		Return(redis.NewIntResult(1, nil))
	client.EXPECT().SRem(gomock.Any(), namesKey, "lotto-oracle-v2.0.0").
		Return(redis.NewIntResult(1, nil))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	assert.NoError(t, storage.Remove("lotto-oracle-v2.0.0"))
}

func TestStorage_Remove_ScanErrorAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().Scan(gomock.Any(), uint64(0), "lotto-oracle-v2.0.0|*", int64(purgeScanCount)).
		Return(redis.NewScanCmdResult(nil, 0, errors.New("connection reset")))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	assert.Error(t, storage.Remove("lotto-oracle-v2.0.0"))
}

func TestStore_PutAndMatch_RoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().SAdd(gomock.Any(), namesKey, "lotto-oracle-v3.0.0").
		Return(redis.NewIntResult(1, nil))

	resp := models.NewStoredResponse(200, nil, []byte(`{"draws":[]}`))

	var stored []byte
	client.EXPECT().Set(gomock.Any(), "lotto-oracle-v3.0.0|GET /api/draws", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, _ string, value interface{}, _ interface{}) *redis.StatusCmd {
			stored = value.([]byte)
			return redis.NewStatusResult("OK", nil)
		})

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	store, err := storage.Open("lotto-oracle-v3.0.0")
	assert.NoError(t, err)

	assert.NoError(t, store.Put("GET /api/draws", resp))
	assert.NotEmpty(t, stored)

	client.EXPECT().Get(gomock.Any(), "lotto-oracle-v3.0.0|GET /api/draws").
		DoAndReturn(func(_ interface{}, _ string) *redis.StringCmd {
			return redis.NewStringResult(string(stored), nil)
		})

	got, found := store.Match("GET /api/draws")
	assert.True(t, found)
	assert.Equal(t, resp.Status, got.Status)
	assert.Equal(t, resp.Body, got.Body)
}

func TestStore_Match_Miss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().SAdd(gomock.Any(), namesKey, "lotto-oracle-v3.0.0").
		Return(redis.NewIntResult(1, nil))
	client.EXPECT().Get(gomock.Any(), "lotto-oracle-v3.0.0|GET /missing").
		Return(redis.NewStringResult("", redis.Nil))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	store, err := storage.Open("lotto-oracle-v3.0.0")
	assert.NoError(t, err)

	got, found := store.Match("GET /missing")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestStore_Match_CorruptedEntryDeleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().SAdd(gomock.Any(), namesKey, "lotto-oracle-v3.0.0").
		Return(redis.NewIntResult(1, nil))
	// Valid S2 frame around invalid JSON
	corrupted := s2.Encode(nil, []byte("not json"))
	client.EXPECT().Get(gomock.Any(), "lotto-oracle-v3.0.0|GET /bad").
		Return(redis.NewStringResult(string(corrupted), nil))
	client.EXPECT().Del(gomock.Any(), "lotto-oracle-v3.0.0|GET /bad").
		Return(redis.NewIntResult(1, nil))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	store, err := storage.Open("lotto-oracle-v3.0.0")
	assert.NoError(t, err)

	got, found := store.Match("GET /bad")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestStore_Put_UpstreamErrorSurfaced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockRedisClient(ctrl)
	client.EXPECT().SAdd(gomock.Any(), namesKey, "lotto-oracle-v3.0.0").
		Return(redis.NewIntResult(1, nil))
	client.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(redis.NewStatusResult("", errors.New("OOM command not allowed")))

	storage := NewStorage(testRedisConfig(), client, zap.NewNop())
	store, err := storage.Open("lotto-oracle-v3.0.0")
	assert.NoError(t, err)

	err = store.Put("GET /", models.NewStoredResponse(200, nil, []byte("shell")))
	assert.Error(t, err)
}
