package cachestore

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_FromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "http://app.example.com/api/draws?limit=10", nil)
	assert.Equal(t, "GET /api/draws?limit=10", Key(req))
}

func TestKey_QueryDistinguishesEntries(t *testing.T) {
	a := httptest.NewRequest("GET", "http://app.example.com/api/draws?page=1", nil)
	b := httptest.NewRequest("GET", "http://app.example.com/api/draws?page=2", nil)
	assert.NotEqual(t, Key(a), Key(b))
}

func TestKeyFor_Normalization(t *testing.T) {
	assert.Equal(t, "GET /", KeyFor("GET", ""))
	assert.Equal(t, "GET /offline.html", KeyFor("GET", "offline.html"))
	assert.Equal(t, "GET /offline.html", KeyFor("GET", "/offline.html"))
}

func TestKey_MatchesPrecacheKey(t *testing.T) {
	// An intercepted request for a precached URL must produce the same key
	// the install step stored it under.
	req := httptest.NewRequest("GET", "http://app.example.com/manifest.json", nil)
	assert.Equal(t, KeyFor("GET", "/manifest.json"), Key(req))
}
