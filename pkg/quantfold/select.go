// Package quantfold selects dequantize nodes that are safe to keep folded
// for a downstream constant-folding pass, and patches partitions when an
// external parser silently dropped such a node.
package quantfold

import (
	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/metrics"
)

// OpDequantizeLinear is the operation kind of dequantize nodes
const OpDequantizeLinear = "DequantizeLinear"

// Selection is the result of one fold-selection pass: the eligible dequantize
// node indices, and a map from each eligible node's unique consumer index to
// the dequantize node's index.
type Selection struct {
	Nodes        map[int]struct{}
	ConsumerToDQ map[int]int
}

// foldableElemType reports whether the initializer element type is on the
// fold allow-list.
func foldableElemType(t *graph.TypeInfo) bool {
	if t == nil {
		return false
	}
	switch t.Elem {
	case graph.ElemInt32, graph.ElemInt16, graph.ElemUint16:
		return true
	default:
		return false
	}
}

// SelectFoldableDQ scans the graph in priority-based topological order and
// flags dequantize nodes eligible for constant folding. A node is eligible
// iff it is a DequantizeLinear op with exactly one consuming edge and no
// graph-output sink, its first input is a constant initializer (outer scopes
// included in the check), and the initializer's element type is INT32, INT16
// or UINT16. For each eligible node the unique consumer's index is mapped to
// the dequantize node's index.
func SelectFoldableDQ(g *graph.Graph, log logging.Logger) (*Selection, error) {
	if log == nil {
		log = logging.DefaultLogger()
	}

	order, err := g.NodesInTopologicalOrder(graph.SortPriority)
	if err != nil {
		return nil, err
	}

	sel := &Selection{
		Nodes:        make(map[int]struct{}),
		ConsumerToDQ: make(map[int]int),
	}
	for _, idx := range order {
		node := g.GetNode(idx)
		if node == nil {
			continue
		}
		if node.OpType() != OpDequantizeLinear {
			continue
		}
		defs := node.InputDefs()
		if len(defs) == 0 {
			continue
		}
		first := defs[0]
		if !foldableElemType(first.Type()) {
			continue
		}
		if !g.IsConstantInitializer(first.Name(), true) {
			continue
		}
		if node.OutputEdgeCount() != 1 || node.ProducesGraphOutput() {
			continue
		}
		consumer := node.FirstConsumer()
		if consumer == nil {
			continue
		}

		sel.Nodes[idx] = struct{}{}
		sel.ConsumerToDQ[consumer.Index()] = idx
		metrics.Default().DQNodesSelected.Inc()
		log.Debug("dequantize node selected for folding",
			logging.NodeName(node.Name()),
			logging.String("consumer", consumer.Name()))
	}

	log.Debug("dequantize fold selection complete",
		logging.GraphName(g.Name()),
		logging.Count(len(sel.Nodes)))
	return sel, nil
}
