package offload

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
	"github.com/dd0wney/cluso-offload/pkg/metrics"
)

// MaterializeFunc converts a value only available as an in-memory constant to
// its inline form, a precondition the downstream accelerator parser requires.
type MaterializeFunc func(g *graph.Graph, name string) error

// ContextBuilder populates the context store for a graph and all of its
// descendant subgraphs. Building is idempotent per graph identity: a context
// already in the store is never recomputed.
type ContextBuilder struct {
	store *ContextStore
	log   logging.Logger
	stats *metrics.Registry

	// Materialize handles the inline-materialization request issued for every
	// non-locally-produced input. Defaults to the graph's own conversion.
	Materialize MaterializeFunc
}

// NewContextBuilder creates a builder writing into the given store. A nil
// logger falls back to the package default.
func NewContextBuilder(store *ContextStore, log logging.Logger) *ContextBuilder {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &ContextBuilder{
		store: store,
		log:   log,
		stats: metrics.Default(),
		Materialize: func(g *graph.Graph, name string) error {
			return g.ConvertInMemoryDataToInline(name)
		},
	}
}

// Build populates contexts for the graph tree rooted at g, deepest subgraphs
// first, and moves the store into the built phase. A materialization failure
// aborts the build; the model cannot be offloaded.
func (b *ContextBuilder) Build(g *graph.Graph) error {
	start := time.Now()
	if err := b.build(g); err != nil {
		return err
	}
	b.store.markBuilt()
	b.stats.ContextBuildDuration.Observe(time.Since(start).Seconds())
	return nil
}

func (b *ContextBuilder) build(g *graph.Graph) error {
	// Recurse into every attribute subgraph first so descendants have their
	// contexts before any later pass queries them top-down.
	for i := 0; i < g.MaxNodeIndex(); i++ {
		node := g.GetNode(i)
		if node == nil {
			continue
		}
		for _, attr := range node.AttributeNames() {
			sub, ok := node.Subgraph(attr)
			if !ok {
				continue
			}
			if err := b.build(sub); err != nil {
				return err
			}
		}
	}

	identity := UniqueGraphName(g)
	if b.store.Contains(identity) {
		// Context has been built before, no need to do it again
		return nil
	}
	ctx := b.store.GetOrCreate(identity)

	// Collect every value produced as a node output in this graph
	for i := 0; i < g.MaxNodeIndex(); i++ {
		node := g.GetNode(i)
		if node == nil {
			continue
		}
		for _, out := range node.OutputDefs() {
			ctx.recordOutputArg(out.Name())
		}
	}

	// Every input not produced locally must come from a graph input, an
	// initializer, or an outer scope.
	for i := 0; i < g.MaxNodeIndex(); i++ {
		node := g.GetNode(i)
		if node == nil {
			continue
		}
		for _, in := range node.InputDefs() {
			if ctx.HasOutputArg(in.Name()) {
				continue
			}
			ctx.recordInput(in)
			if err := b.Materialize(g, in.Name()); err != nil {
				return &PassError{
					Pass:  "context-build",
					Graph: g.Name(),
					Value: in.Name(),
					Cause: fmt.Errorf("%w: %w", ErrMaterializeFailed, err),
				}
			}
		}
	}

	b.stats.ContextsBuilt.Inc()
	b.log.Debug("subgraph context built",
		logging.GraphName(g.Name()),
		logging.Identity(identity),
		logging.Count(len(ctx.inputOrder)))
	return nil
}
