package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the offload passes
type Registry struct {
	// Context / resolution metrics
	ContextsBuilt        prometheus.Counter
	ContextBuildDuration prometheus.Histogram
	OuterScopePromotions prometheus.Counter
	InputsReconciled     prometheus.Counter

	// Quantization fold metrics
	DQNodesSelected   prometheus.Counter
	DQNodesPatched    prometheus.Counter
	PartitionsPatched prometheus.Counter

	// Partition cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	CacheWrites prometheus.Counter

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// NewRegistry creates a registry with all pass metrics registered
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initOffloadMetrics()
	r.initQuantfoldMetrics()
	r.initCacheMetrics()
	return r
}

// Default returns the global registry instance
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// PrometheusRegistry exposes the underlying registry for scraping
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}
