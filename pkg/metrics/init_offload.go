package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOffloadMetrics() {
	r.ContextsBuilt = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "offload_subgraph_contexts_built_total",
			Help: "Total number of subgraph contexts built",
		},
	)

	r.ContextBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "offload_context_build_duration_seconds",
			Help:    "Duration of one context build pass over a graph tree",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.OuterScopePromotions = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "offload_outer_scope_promotions_total",
			Help: "Total number of values promoted to top-level graph inputs",
		},
	)

	r.InputsReconciled = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "offload_inputs_reconciled_total",
			Help: "Total number of graphs whose input lists were reconciled",
		},
	)
}
