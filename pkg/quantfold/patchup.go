package quantfold

import (
	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/metrics"
	"github.com/dd0wney/cluso-offload/pkg/offload"
)

// PatchPartition re-inserts dequantize producers that an external parser
// dropped from a partition. For every node already in the partition that is a
// recorded consumer, the producer's topological position is appended unless
// the producer already appears in any supported partition of the collection.
// The collection normally includes the partition being patched. Producers
// missing from the topological order are skipped; patch-up is best effort.
// Only the partition's own node list is mutated.
func PatchPartition(g *graph.Graph, part *offload.SubGraph, all offload.SubGraphCollection, consumerToDQ map[int]int, log logging.Logger) error {
	if log == nil {
		log = logging.DefaultLogger()
	}
	if len(consumerToDQ) == 0 || part == nil || !part.Supported {
		return nil
	}

	order, err := g.NodesInTopologicalOrder(graph.SortPriority)
	if err != nil {
		return err
	}
	posByIndex := make(map[int]int, len(order))
	for pos, idx := range order {
		posByIndex[idx] = pos
	}

	patched := false
	snapshot := append([]int(nil), part.Nodes...)
	for _, pos := range snapshot {
		if pos < 0 || pos >= len(order) {
			continue
		}
		dqIndex, ok := consumerToDQ[order[pos]]
		if !ok {
			continue
		}
		if all.ContainsNode(order, dqIndex) {
			// Already carried by some partition, nothing to patch
			continue
		}
		dqPos, ok := posByIndex[dqIndex]
		if !ok {
			// Removed or renamed by an earlier pass
			log.Warn("dequantize producer missing from topological order, skipping",
				logging.GraphName(g.Name()),
				logging.Int("node_index", dqIndex))
			continue
		}
		part.Nodes = append(part.Nodes, dqPos)
		patched = true
		metrics.Default().DQNodesPatched.Inc()
		if node := g.GetNode(dqIndex); node != nil {
			log.Debug("dequantize node re-inserted into partition",
				logging.NodeName(node.Name()))
		}
	}
	if patched {
		metrics.Default().PartitionsPatched.Inc()
	}
	return nil
}
