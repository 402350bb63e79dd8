package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQuantfoldMetrics() {
	r.DQNodesSelected = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "quantfold_dq_nodes_selected_total",
			Help: "Total number of dequantize nodes selected for constant folding",
		},
	)

	r.DQNodesPatched = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "quantfold_dq_nodes_patched_total",
			Help: "Total number of dequantize nodes re-inserted into partitions",
		},
	)

	r.PartitionsPatched = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "quantfold_partitions_patched_total",
			Help: "Total number of partitions modified by the patch-up pass",
		},
	)
}
