package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request routing counters
	WorkerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_requests_total",
			Help: "Total number of intercepted requests by route",
		},
		[]string{"route"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_cache_hits_total",
			Help: "Total number of cache hits by strategy",
		},
		[]string{"strategy"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_cache_misses_total",
			Help: "Total number of cache misses by strategy",
		},
		[]string{"strategy"},
	)

	NetworkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_network_failures_total",
			Help: "Total number of failed origin fetches by route",
		},
		[]string{"route"},
	)

	OfflineFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worker_offline_fallbacks_total",
			Help: "Total number of navigation requests served the offline page",
		},
	)

	DetachedWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_detached_writes_total",
			Help: "Total number of detached cache writes by result",
		},
		[]string{"result"},
	)

	PrecacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_precache_total",
			Help: "Total number of precache fetches by result",
		},
		[]string{"result"},
	)

	GenerationsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worker_generations_purged_total",
			Help: "Total number of stale cache generations removed on activate",
		},
	)

	// Store operation latency
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cachestore_operation_duration_seconds",
			Help:    "Duration of cache store operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cachestore_errors_total",
			Help: "Total number of cache store errors by backend and kind",
		},
		[]string{"backend", "kind"},
	)

	// Memory backend capacity (only meaningful for the BigCache backend)
	StoreCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cachestore_capacity_bytes",
			Help: "Memory store capacity in bytes",
		},
		[]string{"backend"},
	)

	StoreEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cachestore_entries",
			Help: "Number of resident entries per backend and store",
		},
		[]string{"backend", "store"},
	)
)

// RecordRequest records an intercepted request
func RecordRequest(route string) {
	WorkerRequests.WithLabelValues(route).Inc()
}

// RecordCacheHit records a cache hit for a strategy
func RecordCacheHit(strategy string) {
	CacheHits.WithLabelValues(strategy).Inc()
}

// RecordCacheMiss records a cache miss for a strategy
func RecordCacheMiss(strategy string) {
	CacheMisses.WithLabelValues(strategy).Inc()
}

// RecordNetworkFailure records a failed origin fetch
func RecordNetworkFailure(route string) {
	NetworkFailures.WithLabelValues(route).Inc()
}

// RecordOfflineFallback records a navigation served the offline page
func RecordOfflineFallback() {
	OfflineFallbacks.Inc()
}

// RecordDetachedWrite records the outcome of a detached cache write
func RecordDetachedWrite(result string) {
	DetachedWrites.WithLabelValues(result).Inc()
}

// RecordPrecache records the outcome of a single precache fetch
func RecordPrecache(result string) {
	PrecacheResults.WithLabelValues(result).Inc()
}

// RecordGenerationPurged records removal of one stale generation
func RecordGenerationPurged() {
	GenerationsPurged.Inc()
}

// RecordStoreError records a cache store error
func RecordStoreError(backend, kind string) {
	StoreErrors.WithLabelValues(backend, kind).Inc()
}

// UpdateMemoryCapacity updates the memory store capacity gauge
func UpdateMemoryCapacity(capacity int64) {
	StoreCapacity.WithLabelValues("memory").Set(float64(capacity))
}

// UpdateStoreEntries updates the resident entry count for one store
func UpdateStoreEntries(backend, store string, entries int) {
	StoreEntries.WithLabelValues(backend, store).Set(float64(entries))
}

// ForgetStoreEntries drops the entry gauge for a removed store
func ForgetStoreEntries(backend, store string) {
	StoreEntries.DeleteLabelValues(backend, store)
}

// TimeStoreOperation returns a timer function for measuring a store operation
func TimeStoreOperation(backend, operation string) func() {
	timer := prometheus.NewTimer(StoreOperationDuration.WithLabelValues(backend, operation))
	return func() {
		timer.ObserveDuration()
	}
}
