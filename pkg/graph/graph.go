package graph

// Graph is a directed computation graph of nodes over named values. A graph
// may be the body of a control-flow node's attribute, in which case it holds
// non-owning back-references to its parent node and parent graph; the chain
// of parent graphs forms a tree rooted at the top-level graph.
type Graph struct {
	name string

	// nodes is indexed by node index; removed nodes leave nil slots so the
	// index space stays sparse rather than shifting.
	nodes       []*Node
	nodesByName map[string]*Node

	args         map[string]*NodeArg
	initializers map[string]*Initializer
	initOrder    []string

	declaredInputs []*NodeArg
	explicitInputs []*NodeArg
	explicitSet    bool
	outputs        []*NodeArg

	outerScopeArgs map[string]struct{}

	parentNode  *Node
	parentGraph *Graph
}

// New creates an empty graph with the given name
func New(name string) *Graph {
	return &Graph{
		name:           name,
		nodesByName:    make(map[string]*Node),
		args:           make(map[string]*NodeArg),
		initializers:   make(map[string]*Initializer),
		outerScopeArgs: make(map[string]struct{}),
	}
}

// Name returns the graph name
func (g *Graph) Name() string {
	return g.name
}

// MaxNodeIndex returns the upper bound of the node index space. Slots below
// the bound may be nil where nodes have been removed.
func (g *Graph) MaxNodeIndex() int {
	return len(g.nodes)
}

// GetNode returns the node at the given index, or nil if the index is out of
// range or the slot has been removed.
func (g *Graph) GetNode(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return g.nodes[i]
}

// NodeByName returns the node with the given name, or nil
func (g *Graph) NodeByName(name string) *Node {
	return g.nodesByName[name]
}

// AddNode appends a node consuming and defining the given node args. Node
// names must be unique within the graph.
func (g *Graph) AddNode(name, opType string, inputs, outputs []*NodeArg) (*Node, error) {
	if _, exists := g.nodesByName[name]; exists {
		return nil, opError("AddNode", g, name, ErrDuplicateNode)
	}
	n := &Node{
		index:   len(g.nodes),
		name:    name,
		opType:  opType,
		inputs:  append([]*NodeArg(nil), inputs...),
		outputs: append([]*NodeArg(nil), outputs...),
		owner:   g,
	}
	g.nodes = append(g.nodes, n)
	g.nodesByName[name] = n
	return n, nil
}

// RemoveNode clears the node slot at the given index, leaving a gap in the
// index space.
func (g *Graph) RemoveNode(i int) error {
	n := g.GetNode(i)
	if n == nil {
		return opError("RemoveNode", g, "", ErrNodeNotFound)
	}
	delete(g.nodesByName, n.name)
	g.nodes[i] = nil
	return nil
}

// GetNodeArg returns the node arg with the given name, or nil if the graph
// has never seen the name.
func (g *Graph) GetNodeArg(name string) *NodeArg {
	return g.args[name]
}

// GetOrCreateNodeArg returns the existing node arg with the given name, or
// registers a new one with the given type. An existing arg with no type
// adopts the given descriptor.
func (g *Graph) GetOrCreateNodeArg(name string, typ *TypeInfo) *NodeArg {
	if arg, ok := g.args[name]; ok {
		if arg.typ == nil && typ != nil {
			arg.typ = typ
		}
		return arg
	}
	arg := &NodeArg{name: name, typ: typ}
	g.args[name] = arg
	return arg
}

// AddOuterScopeNodeArg marks the named value as referencing an outer scope
func (g *Graph) AddOuterScopeNodeArg(name string) {
	g.outerScopeArgs[name] = struct{}{}
}

// HasOuterScopeNodeArg reports whether the named value has been marked as an
// outer-scope reference
func (g *Graph) HasOuterScopeNodeArg(name string) bool {
	_, ok := g.outerScopeArgs[name]
	return ok
}

// AddInitializer attaches a constant to the graph and registers its node arg
func (g *Graph) AddInitializer(init *Initializer) *NodeArg {
	if _, exists := g.initializers[init.Name]; !exists {
		g.initOrder = append(g.initOrder, init.Name)
	}
	g.initializers[init.Name] = init
	return g.GetOrCreateNodeArg(init.Name, init.Type)
}

// Initializer returns the constant with the given name, if present
func (g *Graph) Initializer(name string) (*Initializer, bool) {
	init, ok := g.initializers[name]
	return init, ok
}

// Initializers returns the graph's constants in attachment order
func (g *Graph) Initializers() []*Initializer {
	inits := make([]*Initializer, 0, len(g.initOrder))
	for _, name := range g.initOrder {
		inits = append(inits, g.initializers[name])
	}
	return inits
}

// IsConstantInitializer reports whether the named value is a constant
// initializer of this graph, optionally searching the ancestor chain.
func (g *Graph) IsConstantInitializer(name string, checkOuterScope bool) bool {
	if _, ok := g.initializers[name]; ok {
		return true
	}
	if checkOuterScope && g.parentGraph != nil {
		return g.parentGraph.IsConstantInitializer(name, checkOuterScope)
	}
	return false
}

// ConvertInMemoryDataToInline serializes an in-memory constant into the graph
// so external parsers can consume it. Values that are not in-memory
// initializers are left untouched. An in-memory constant with no payload
// cannot be inlined and fails hard.
func (g *Graph) ConvertInMemoryDataToInline(name string) error {
	init, ok := g.initializers[name]
	if !ok || !init.InMemory {
		return nil
	}
	if init.Data == nil {
		return opError("InlineInitializer", g, name, ErrInlineData)
	}
	init.InMemory = false
	return nil
}

// AddInput declares a graph input
func (g *Graph) AddInput(arg *NodeArg) {
	g.declaredInputs = append(g.declaredInputs, arg)
}

// SetInputs installs the authoritative input list, replacing whatever was
// declared or computed before.
func (g *Graph) SetInputs(args []*NodeArg) {
	g.explicitInputs = append([]*NodeArg(nil), args...)
	g.explicitSet = true
}

// GetInputsIncludingInitializers returns the graph's input list. When no
// authoritative list has been installed with SetInputs, the declared inputs
// are returned followed by initializer args not already declared.
func (g *Graph) GetInputsIncludingInitializers() []*NodeArg {
	if g.explicitSet {
		return g.explicitInputs
	}
	seen := make(map[string]struct{}, len(g.declaredInputs))
	inputs := make([]*NodeArg, 0, len(g.declaredInputs)+len(g.initOrder))
	for _, arg := range g.declaredInputs {
		if _, ok := seen[arg.Name()]; ok {
			continue
		}
		seen[arg.Name()] = struct{}{}
		inputs = append(inputs, arg)
	}
	for _, name := range g.initOrder {
		if _, ok := seen[name]; ok {
			continue
		}
		if arg := g.args[name]; arg != nil {
			seen[name] = struct{}{}
			inputs = append(inputs, arg)
		}
	}
	return inputs
}

// AddOutput declares a graph output
func (g *Graph) AddOutput(arg *NodeArg) {
	g.outputs = append(g.outputs, arg)
}

// Outputs returns the declared graph outputs
func (g *Graph) Outputs() []*NodeArg {
	return g.outputs
}

// ParentGraph returns the enclosing graph, or nil at the top level
func (g *Graph) ParentGraph() *Graph {
	return g.parentGraph
}

// ParentNode returns the control-flow node whose attribute this graph is the
// body of, or nil at the top level
func (g *Graph) ParentNode() *Node {
	return g.parentNode
}

// AttachSubgraph binds a graph as the body of the node's named attribute and
// wires the parent links. The node must belong to this graph.
func (g *Graph) AttachSubgraph(n *Node, attr string, sub *Graph) error {
	if n.owner != g {
		return opError("AttachSubgraph", g, n.Name(), ErrForeignNode)
	}
	if n.subgraphs == nil {
		n.subgraphs = make(map[string]*Graph)
	}
	if _, exists := n.subgraphs[attr]; exists {
		return opError("AttachSubgraph", g, attr, ErrAttributeExists)
	}
	n.subgraphs[attr] = sub
	n.attrNames = append(n.attrNames, attr)
	sub.parentNode = n
	sub.parentGraph = g
	return nil
}
