package routing

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go-offline-gateway/internal/config"
)

func testWorkerConfig() config.WorkerConfig {
	return config.WorkerConfig{
		CacheGeneration: "lotto-oracle-v3.0.0",
		IgnorePatterns:  []string{"chrome-extension", "devtools", "localhost", "127.0.0.1", "__"},
	}
}

func TestClassify_Routes(t *testing.T) {
	classifier := NewClassifier(testWorkerConfig(), zap.NewNop())

	tests := []struct {
		name     string
		method   string
		target   string
		expected Route
	}{
		{
			name:     "api path is network-first",
			method:   "GET",
			target:   "http://app.example.com/api/draws",
			expected: RouteNetworkFirst,
		},
		{
			name:     "nested api segment is network-first",
			method:   "GET",
			target:   "http://app.example.com/v1/api/predictions?limit=5",
			expected: RouteNetworkFirst,
		},
		{
			name:     "static asset is cache-first",
			method:   "GET",
			target:   "http://app.example.com/icon-192x192.png",
			expected: RouteCacheFirst,
		},
		{
			name:     "app shell is cache-first",
			method:   "GET",
			target:   "http://app.example.com/",
			expected: RouteCacheFirst,
		},
		{
			name:     "path merely prefixed with api is cache-first",
			method:   "GET",
			target:   "http://app.example.com/apidocs",
			expected: RouteCacheFirst,
		},
		{
			name:     "extension url is ignored",
			method:   "GET",
			target:   "http://app.example.com/chrome-extension/foo.js",
			expected: RouteIgnore,
		},
		{
			name:     "double underscore path is ignored",
			method:   "GET",
			target:   "http://app.example.com/__worker/message",
			expected: RouteIgnore,
		},
		{
			name:     "ignore wins over api classification",
			method:   "GET",
			target:   "http://app.example.com/__internal/api/draws",
			expected: RouteIgnore,
		},
		{
			name:     "post request passes through",
			method:   "POST",
			target:   "http://app.example.com/api/draws",
			expected: RouteIgnore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			assert.Equal(t, tt.expected, classifier.Classify(req))
		})
	}
}

func TestShouldIgnore_MatchesHost(t *testing.T) {
	classifier := NewClassifier(testWorkerConfig(), zap.NewNop())

	req := httptest.NewRequest("GET", "http://localhost:9222/json/list", nil)
	assert.True(t, classifier.ShouldIgnore(req))

	req = httptest.NewRequest("GET", "http://app.example.com/assets/app.js", nil)
	assert.False(t, classifier.ShouldIgnore(req))
}

func TestIsNavigation(t *testing.T) {
	nav := httptest.NewRequest("GET", "http://app.example.com/stats", nil)
	nav.Header.Set("Sec-Fetch-Mode", "navigate")
	assert.True(t, IsNavigation(nav))

	asset := httptest.NewRequest("GET", "http://app.example.com/app.js", nil)
	asset.Header.Set("Sec-Fetch-Mode", "no-cors")
	assert.False(t, IsNavigation(asset))

	// Legacy client without fetch metadata headers
	legacy := httptest.NewRequest("GET", "http://app.example.com/stats", nil)
	legacy.Header.Set("Accept", "text/html,application/xhtml+xml")
	assert.True(t, IsNavigation(legacy))

	legacyAsset := httptest.NewRequest("GET", "http://app.example.com/app.js", nil)
	legacyAsset.Header.Set("Accept", "*/*")
	assert.False(t, IsNavigation(legacyAsset))
}
