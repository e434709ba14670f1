package noop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-offline-gateway/internal/models"
)

func TestStorage_OpenAlwaysMisses(t *testing.T) {
	storage := NewStorage()

	store, err := storage.Open("lotto-oracle-v3.0.0")
	assert.NoError(t, err)

	assert.NoError(t, store.Put("GET /", models.NewStoredResponse(200, nil, []byte("shell"))))

	got, found := store.Match("GET /")
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestStorage_NamesEmpty(t *testing.T) {
	storage := NewStorage()

	names, err := storage.Names()
	assert.NoError(t, err)
	assert.Empty(t, names)

	assert.NoError(t, storage.Remove("anything"))
	assert.NoError(t, storage.Close())
}

func TestStore_DeleteIsHarmless(t *testing.T) {
	storage := NewStorage()
	store, err := storage.Open("gen")
	assert.NoError(t, err)

	store.Delete("GET /missing")
}
