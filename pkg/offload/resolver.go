package offload

import (
	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/metrics"
)

// Resolver determines, for every value implicitly referenced by a nested
// subgraph's parent node, whether the value is visible somewhere in the
// candidate graph's ancestor chain, and promotes it to an explicit input of
// the candidate's top-level graph when it is not. Candidate graphs have not
// been structurally validated yet, so the usual resolve-time visibility
// checks are reimplemented here on top of the context store.
type Resolver struct {
	store *ContextStore
	log   logging.Logger
	stats *metrics.Registry
}

// NewResolver creates a resolver reading the given store. A nil logger falls
// back to the package default.
func NewResolver(store *ContextStore, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Resolver{store: store, log: log, stats: metrics.Default()}
}

// IsLocalValue reports whether the named value is produced or consumed
// locally by the graph, according to its built context. A graph with no
// context yields false.
func (r *Resolver) IsLocalValue(g *graph.Graph, name string) bool {
	ctx, ok := r.store.Get(UniqueGraphName(g))
	if !ok {
		return false
	}
	return ctx.HasOutputArg(name) || ctx.HasInputOrInitializer(name)
}

// IsInputInitializerOrOutput reports whether the named value is local to the
// graph or, when checkAncestors is set, to any graph up its parent chain.
func (r *Resolver) IsInputInitializerOrOutput(g *graph.Graph, name string, checkAncestors bool) bool {
	if r.IsLocalValue(g, name) {
		return true
	}
	if !checkAncestors {
		return false
	}
	parent := g.ParentGraph()
	if parent == nil {
		return false
	}
	return r.IsInputInitializerOrOutput(parent, name, checkAncestors)
}

// IsOuterScopeValue reports whether the named value is visible in some
// ancestor scope of the graph.
func (r *Resolver) IsOuterScopeValue(g *graph.Graph, name string) bool {
	parent := g.ParentGraph()
	if parent == nil {
		return false
	}
	return r.IsInputInitializerOrOutput(parent, name, true)
}

// ResolveOuterScopeValues walks the candidate graph and the original graph it
// was rebuilt from in parallel, deepest subgraph pairs first, marking
// outer-scope references on the candidate and promoting values no enclosing
// scope exposes to explicit inputs of the candidate's top-level graph. The
// two graphs must be congruent at the level of node names; the candidate may
// cover a subset of the original's nodes.
func (r *Resolver) ResolveOuterScopeValues(candidate, original *graph.Graph) error {
	if r.store.Phase() != PhaseBuilt {
		return &PassError{Pass: "outer-scope-resolve", Graph: candidate.Name(), Cause: ErrContextNotBuilt}
	}
	return r.resolve(candidate, original)
}

func (r *Resolver) resolve(candidate, original *graph.Graph) error {
	// Recurse into the inner-most subgraphs first, matching candidate nodes
	// to original nodes by name, so promotions bubble to the true top level.
	for i := 0; i < candidate.MaxNodeIndex(); i++ {
		cnode := candidate.GetNode(i)
		if cnode == nil {
			continue
		}
		onode := original.NodeByName(cnode.Name())
		if onode == nil {
			continue
		}
		for _, attr := range cnode.AttributeNames() {
			csub, ok := cnode.Subgraph(attr)
			if !ok {
				continue
			}
			osub, ok := onode.Subgraph(attr)
			if !ok {
				continue
			}
			if err := r.resolve(csub, osub); err != nil {
				return err
			}
		}
	}

	if candidate.ParentNode() == nil {
		return nil
	}

	top := candidate
	for top.ParentGraph() != nil {
		top = top.ParentGraph()
	}
	identity := UniqueGraphName(top)
	ctx, ok := r.store.Get(identity)
	if !ok {
		r.log.Error("top-level graph context missing; run the context builder before resolving",
			logging.GraphName(top.Name()),
			logging.Identity(identity))
		return &PassError{Pass: "outer-scope-resolve", Graph: top.Name(), Cause: ErrTopLevelContextMissing}
	}

	parent := original.ParentNode()
	if parent == nil {
		return nil
	}

	r.log.Debug("resolving outer scope values",
		logging.GraphName(candidate.Name()),
		logging.NodeName(parent.Name()))

	for _, input := range parent.ImplicitInputDefs() {
		name := input.Name()

		// The parent node's implicit inputs may serve a sibling subgraph, for
		// example both branches of an If node. Only values this subgraph has
		// actually seen matter here.
		if candidate.GetNodeArg(name) == nil {
			continue
		}
		candidate.AddOuterScopeNodeArg(name)
		r.log.Debug("outer scope value used in subgraph",
			logging.GraphName(candidate.Name()),
			logging.ValueName(name))

		if ctx.HasManualInput(name) {
			continue
		}
		if r.IsOuterScopeValue(candidate, name) {
			continue
		}

		// No enclosing scope of the candidate exposes this value; it must
		// become an explicit input of the top-level graph.
		if topLevelInputExists(top, name) {
			continue
		}
		var typ *graph.TypeInfo
		if input.Type() != nil {
			typ = input.Type().Clone()
		}
		promoted := top.GetOrCreateNodeArg(name, typ)
		ctx.addManualInput(promoted)
		r.stats.OuterScopePromotions.Inc()
		r.log.Debug("outer scope value promoted to top-level input",
			logging.GraphName(top.Name()),
			logging.ValueName(name))
	}
	return nil
}

func topLevelInputExists(top *graph.Graph, name string) bool {
	for _, in := range top.GetInputsIncludingInitializers() {
		if in.Name() == name {
			return true
		}
	}
	return false
}
