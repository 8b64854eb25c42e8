package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal) }

// CacheResult labels the outcome of a read-through cache lookup.
type CacheResult string

const (
	CacheHit    CacheResult = "hit"
	CacheMiss   CacheResult = "miss"
	CacheBypass CacheResult = "bypass" // request shape not cacheable
	CacheError  CacheResult = "error"  // redis or decode failure, served from postgres
)

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "soulsync_cache_requests_total",
		Help: "Redis read-through cache lookups by repository and result.",
	},
	[]string{"cache", "result"},
)

func IncCacheRequest(cache string, result CacheResult) {
	cacheRequestsTotal.WithLabelValues(norm(cache), string(result)).Inc()
}
