package routing

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-offline-gateway/internal/config"
)

// Route is the strategy a request is dispatched to.
type Route string

const (
	// RouteIgnore bypasses interception entirely: straight to the network,
	// no cache reads or writes.
	RouteIgnore Route = "ignore"
	// RouteNetworkFirst prefers the origin and falls back to cache.
	RouteNetworkFirst Route = "network_first"
	// RouteCacheFirst prefers the cache and only consults the origin on miss.
	RouteCacheFirst Route = "cache_first"
)

// Classifier decides the caching strategy for each intercepted request.
// The ignore check always runs before any strategy classification.
type Classifier struct {
	ignorePatterns []string
	logger         *zap.Logger
}

// NewClassifier creates a new Classifier from worker configuration
func NewClassifier(cfg config.WorkerConfig, logger *zap.Logger) *Classifier {
	return &Classifier{
		ignorePatterns: cfg.IgnorePatterns,
		logger:         logger,
	}
}

// Classify returns the route for a request.
func (c *Classifier) Classify(r *http.Request) Route {
	if c.ShouldIgnore(r) {
		return RouteIgnore
	}

	// Non-GET requests carry no cache identity; they pass through untouched.
	if r.Method != http.MethodGet {
		return RouteIgnore
	}

	if strings.Contains(r.URL.Path, "/api/") {
		return RouteNetworkFirst
	}

	return RouteCacheFirst
}

// ShouldIgnore reports whether the request URL matches any ignore pattern.
func (c *Classifier) ShouldIgnore(r *http.Request) bool {
	url := r.Host + r.URL.RequestURI()
	for _, pattern := range c.ignorePatterns {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}

// IsNavigation reports whether the request is a full-page navigation.
// Browsers set Sec-Fetch-Mode on modern requests; the Accept header is the
// fallback signal.
func IsNavigation(r *http.Request) bool {
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}
