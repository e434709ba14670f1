package worker

import (
	"net/http"

	"go.uber.org/zap"

	"go-offline-gateway/internal/cachestore"
	"go-offline-gateway/internal/metrics"
	"go-offline-gateway/internal/models"
	"go-offline-gateway/internal/routing"
)

// ServeHTTP dispatches an intercepted request to its strategy. The ignore
// check inside the classifier always runs before strategy selection.
func (wk *Worker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := wk.classifier.Classify(r)
	metrics.RecordRequest(string(route))

	switch route {
	case routing.RouteNetworkFirst:
		wk.networkFirst(w, r)
	case routing.RouteCacheFirst:
		wk.cacheFirst(w, r)
	default:
		wk.passthrough(w, r)
	}
}

// passthrough forwards the request untouched: no cache reads, no cache writes.
func (wk *Worker) passthrough(w http.ResponseWriter, r *http.Request) {
	result, err := wk.fetcher.Fetch(r.Context(), r.Method, r.URL.RequestURI(), r.Header, r.Body)
	if err != nil {
		metrics.RecordNetworkFailure(string(routing.RouteIgnore))
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	wk.serve(w, result.Response)
}

// networkFirst prefers the origin. A resolved response is served and a copy
// stored in a detached write; on transport failure the cached entry for the
// exact key is served, and with no entry the failure surfaces to the caller.
func (wk *Worker) networkFirst(w http.ResponseWriter, r *http.Request) {
	key := cachestore.Key(r)

	result, err := wk.fetcher.Fetch(r.Context(), r.Method, r.URL.RequestURI(), r.Header, nil)
	if err == nil {
		wk.detachedPut(key, result.Response)
		wk.serve(w, result.Response)
		return
	}

	metrics.RecordNetworkFailure(string(routing.RouteNetworkFirst))
	wk.logger.Warn("Origin fetch failed, falling back to cache",
		zap.String("key", key), zap.Error(err))

	if cached, found := wk.store.Match(key); found {
		metrics.RecordCacheHit(string(routing.RouteNetworkFirst))
		wk.serve(w, cached)
		return
	}

	metrics.RecordCacheMiss(string(routing.RouteNetworkFirst))
	http.Error(w, "upstream unavailable", http.StatusBadGateway)
}

// cacheFirst prefers the stored response; the origin is consulted only on a
// miss. Only 200 same-origin responses are stored. When the whole chain
// fails, navigations get the precached offline page; anything else propagates.
func (wk *Worker) cacheFirst(w http.ResponseWriter, r *http.Request) {
	key := cachestore.Key(r)

	if cached, found := wk.store.Match(key); found {
		metrics.RecordCacheHit(string(routing.RouteCacheFirst))
		wk.serve(w, cached)
		return
	}
	metrics.RecordCacheMiss(string(routing.RouteCacheFirst))

	result, err := wk.fetcher.Fetch(r.Context(), http.MethodGet, r.URL.RequestURI(), r.Header, nil)
	if err != nil {
		metrics.RecordNetworkFailure(string(routing.RouteCacheFirst))
		wk.logger.Warn("Origin fetch failed on cache miss",
			zap.String("key", key), zap.Error(err))

		if routing.IsNavigation(r) {
			wk.serveOfflineFallback(w)
			return
		}
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}

	if isCacheable(result) {
		wk.detachedPut(key, result.Response)
	}
	wk.serve(w, result.Response)
}

// serveOfflineFallback serves the precached offline page for a failed
// navigation. The page is guaranteed resident by a successful install; if it
// is somehow gone the failure propagates as 503.
func (wk *Worker) serveOfflineFallback(w http.ResponseWriter) {
	key := cachestore.KeyFor(http.MethodGet, wk.cfg.OfflineFallbackURL)
	if page, found := wk.store.Match(key); found {
		metrics.RecordOfflineFallback()
		wk.serve(w, page)
		return
	}
	http.Error(w, "offline", http.StatusServiceUnavailable)
}

// detachedPut stores a response copy without blocking the response path.
// Ordering relative to the already-served response is unspecified, and
// failures never surface to the caller.
func (wk *Worker) detachedPut(key string, resp *models.StoredResponse) {
	wk.tasks.Add(1)
	go func() {
		defer wk.tasks.Done()
		if err := wk.store.Put(key, resp); err != nil {
			metrics.RecordDetachedWrite("error")
			wk.logger.Warn("Detached cache write failed", zap.String("key", key), zap.Error(err))
			return
		}
		metrics.RecordDetachedWrite("ok")
	}()
}

func (wk *Worker) serve(w http.ResponseWriter, resp *models.StoredResponse) {
	if err := resp.WriteTo(w); err != nil {
		wk.logger.Debug("Failed to write response to client", zap.Error(err))
	}
}

// isCacheable applies the cache-first storage rule: status 200 and a "basic"
// same-origin response.
func isCacheable(result *models.FetchResult) bool {
	return result.Response.Status == http.StatusOK && result.SameOrigin
}
