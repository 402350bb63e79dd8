package offload

import (
	"github.com/dd0wney/cluso-offload/pkg/graph"
)

// BuildCandidate rebuilds a partition of the original graph as a standalone
// graph: the partitioned nodes, the initializers they reference, and full
// copies of their nested subgraph bodies. Node names are preserved so the
// resolver can match the candidate back against the original. The candidate
// has not been structurally validated; run the context builder, the resolver
// and the input reconciler over it before handing it to an external parser.
func BuildCandidate(original *graph.Graph, part *SubGraph) (*graph.Graph, error) {
	order, err := original.NodesInTopologicalOrder(graph.SortPriority)
	if err != nil {
		return nil, err
	}

	candidate := graph.New(original.Name())
	for _, pos := range part.Nodes {
		if pos < 0 || pos >= len(order) {
			return nil, &PassError{Pass: "candidate-build", Graph: original.Name(), Cause: ErrPartitionRange}
		}
		node := original.GetNode(order[pos])
		if node == nil {
			continue
		}
		if err := cloneNodeInto(candidate, original, node); err != nil {
			return nil, err
		}
	}

	// Graph outputs produced inside the region stay outputs of the candidate
	for _, out := range original.Outputs() {
		if candidateProduces(candidate, out.Name()) {
			candidate.AddOutput(candidate.GetOrCreateNodeArg(out.Name(), out.Type().Clone()))
		}
	}
	return candidate, nil
}

func cloneNodeInto(dst *graph.Graph, src *graph.Graph, node *graph.Node) error {
	n, err := dst.AddNode(node.Name(), node.OpType(), cloneArgs(dst, node.InputDefs()), cloneArgs(dst, node.OutputDefs()))
	if err != nil {
		return err
	}
	n.SetPriority(node.Priority())

	for _, arg := range node.ImplicitInputDefs() {
		n.AddImplicitInput(dst.GetOrCreateNodeArg(arg.Name(), arg.Type().Clone()))
	}

	// Constants consumed by the node travel with it
	for _, in := range node.InputDefs() {
		if init, ok := src.Initializer(in.Name()); ok {
			dst.AddInitializer(init.Clone())
		}
	}

	for _, attr := range node.AttributeNames() {
		sub, ok := node.Subgraph(attr)
		if !ok {
			continue
		}
		subCopy := graph.New(sub.Name())
		if err := cloneGraphInto(subCopy, sub); err != nil {
			return err
		}
		if err := dst.AttachSubgraph(n, attr, subCopy); err != nil {
			return err
		}
	}
	return nil
}

func cloneGraphInto(dst *graph.Graph, src *graph.Graph) error {
	for _, init := range src.Initializers() {
		dst.AddInitializer(init.Clone())
	}
	for i := 0; i < src.MaxNodeIndex(); i++ {
		node := src.GetNode(i)
		if node == nil {
			continue
		}
		if err := cloneNodeInto(dst, src, node); err != nil {
			return err
		}
	}
	for _, in := range src.GetInputsIncludingInitializers() {
		dst.AddInput(dst.GetOrCreateNodeArg(in.Name(), in.Type().Clone()))
	}
	for _, out := range src.Outputs() {
		dst.AddOutput(dst.GetOrCreateNodeArg(out.Name(), out.Type().Clone()))
	}
	return nil
}

func cloneArgs(dst *graph.Graph, args []*graph.NodeArg) []*graph.NodeArg {
	cloned := make([]*graph.NodeArg, 0, len(args))
	for _, arg := range args {
		cloned = append(cloned, dst.GetOrCreateNodeArg(arg.Name(), arg.Type().Clone()))
	}
	return cloned
}

func candidateProduces(g *graph.Graph, name string) bool {
	for i := 0; i < g.MaxNodeIndex(); i++ {
		node := g.GetNode(i)
		if node == nil {
			continue
		}
		for _, out := range node.OutputDefs() {
			if out.Name() == name {
				return true
			}
		}
	}
	return false
}
