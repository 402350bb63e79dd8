package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCacheMetrics() {
	r.CacheHits = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "offload_partition_cache_hits_total",
			Help: "Total number of partition cache hits",
		},
	)

	r.CacheMisses = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "offload_partition_cache_misses_total",
			Help: "Total number of partition cache misses",
		},
	)

	r.CacheWrites = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "offload_partition_cache_writes_total",
			Help: "Total number of partition cache writes",
		},
	)
}
