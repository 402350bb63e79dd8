package graph

// Node is one operation in a computation graph. Nodes consume node args as
// explicit inputs, may reference outer-scope values as implicit inputs when
// they carry control-flow subgraphs, and define their outputs.
type Node struct {
	index    int
	name     string
	opType   string
	priority int

	inputs   []*NodeArg
	outputs  []*NodeArg
	implicit []*NodeArg

	subgraphs map[string]*Graph
	attrNames []string // attribute insertion order, kept for deterministic traversal

	owner *Graph
}

// Index returns the node's position in the owning graph's index space
func (n *Node) Index() int {
	return n.index
}

// Name returns the node name
func (n *Node) Name() string {
	return n.name
}

// OpType returns the node's operation kind
func (n *Node) OpType() string {
	return n.opType
}

// Priority returns the scheduling priority used by priority-based
// topological ordering. Higher priorities order earlier.
func (n *Node) Priority() int {
	return n.priority
}

// SetPriority sets the scheduling priority
func (n *Node) SetPriority(p int) {
	n.priority = p
}

// InputDefs returns the node's explicit inputs in declaration order
func (n *Node) InputDefs() []*NodeArg {
	return n.inputs
}

// OutputDefs returns the node's outputs in declaration order
func (n *Node) OutputDefs() []*NodeArg {
	return n.outputs
}

// ImplicitInputDefs returns values referenced by the node's subgraph bodies
// but not declared as explicit inputs
func (n *Node) ImplicitInputDefs() []*NodeArg {
	return n.implicit
}

// AddImplicitInput records an implicit input on the node
func (n *Node) AddImplicitInput(arg *NodeArg) {
	for _, a := range n.implicit {
		if a.Name() == arg.Name() {
			return
		}
	}
	n.implicit = append(n.implicit, arg)
}

// AttributeNames returns the names of attributes carrying subgraph bodies,
// in attachment order
func (n *Node) AttributeNames() []string {
	return n.attrNames
}

// Subgraph returns the subgraph bound to the named attribute
func (n *Node) Subgraph(attr string) (*Graph, bool) {
	sub, ok := n.subgraphs[attr]
	return sub, ok
}

// SubgraphMap returns the attribute-to-subgraph map. The map is shared with
// the node; callers must not mutate it.
func (n *Node) SubgraphMap() map[string]*Graph {
	return n.subgraphs
}

// OutputEdgeCount counts consumer edges of this node: every explicit or
// implicit input reference to one of this node's outputs by another node in
// the same graph.
func (n *Node) OutputEdgeCount() int {
	produced := n.outputNameSet()
	count := 0
	for i := 0; i < n.owner.MaxNodeIndex(); i++ {
		consumer := n.owner.GetNode(i)
		if consumer == nil || consumer == n {
			continue
		}
		for _, in := range consumer.inputs {
			if _, ok := produced[in.Name()]; ok {
				count++
			}
		}
		for _, in := range consumer.implicit {
			if _, ok := produced[in.Name()]; ok {
				count++
			}
		}
	}
	return count
}

// ProducesGraphOutput reports whether any of the node's outputs is a declared
// output of the owning graph
func (n *Node) ProducesGraphOutput() bool {
	produced := n.outputNameSet()
	for _, out := range n.owner.Outputs() {
		if _, ok := produced[out.Name()]; ok {
			return true
		}
	}
	return false
}

// Consumers returns the nodes consuming any of this node's outputs, in
// increasing node index order
func (n *Node) Consumers() []*Node {
	produced := n.outputNameSet()
	var consumers []*Node
	for i := 0; i < n.owner.MaxNodeIndex(); i++ {
		consumer := n.owner.GetNode(i)
		if consumer == nil || consumer == n {
			continue
		}
		if consumer.consumesAny(produced) {
			consumers = append(consumers, consumer)
		}
	}
	return consumers
}

// FirstConsumer returns the first consumer in node index order, or nil
func (n *Node) FirstConsumer() *Node {
	consumers := n.Consumers()
	if len(consumers) == 0 {
		return nil
	}
	return consumers[0]
}

func (n *Node) outputNameSet() map[string]struct{} {
	set := make(map[string]struct{}, len(n.outputs))
	for _, out := range n.outputs {
		set[out.Name()] = struct{}{}
	}
	return set
}

func (n *Node) consumesAny(names map[string]struct{}) bool {
	for _, in := range n.inputs {
		if _, ok := names[in.Name()]; ok {
			return true
		}
	}
	for _, in := range n.implicit {
		if _, ok := names[in.Name()]; ok {
			return true
		}
	}
	return false
}
