package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks catalog cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
	)

	// CacheMisses tracks catalog cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
	)

	// CacheInvalidations tracks keys removed by pattern invalidation
	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_cache_invalidated_keys_total",
			Help: "Total number of cache keys removed by pattern invalidation",
		},
		[]string{"pattern"}, // "products:*", "categories:*"
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "scan"
	)
)
