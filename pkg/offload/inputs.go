package offload

import (
	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
)

// ReconcileInputs installs the authoritative input list on a graph whose
// context records manually added inputs. The list is the union, first
// occurrence by name winning, of the context's inputs-and-initializers, its
// manually added inputs, and the graph's currently declared inputs. Graphs
// without manual inputs are left alone: the host framework's own structural
// validation computes their inputs. This must run before that validation,
// because it overwrites whatever input list a later pass would install.
func (r *Resolver) ReconcileInputs(g *graph.Graph) {
	ctx, ok := r.store.Get(UniqueGraphName(g))
	if !ok || len(ctx.manualOrder) == 0 {
		return
	}

	seen := make(map[string]struct{})
	inputs := make([]*graph.NodeArg, 0, len(ctx.inputOrder)+len(ctx.manualOrder))
	add := func(arg *graph.NodeArg) {
		if _, dup := seen[arg.Name()]; dup {
			return
		}
		seen[arg.Name()] = struct{}{}
		inputs = append(inputs, arg)
	}

	for _, arg := range ctx.InputsAndInitializers() {
		add(arg)
	}
	for _, arg := range ctx.ManualInputs() {
		add(arg)
	}
	for _, arg := range g.GetInputsIncludingInitializers() {
		add(arg)
	}

	g.SetInputs(inputs)
	r.stats.InputsReconciled.Inc()
	r.log.Debug("graph inputs reconciled",
		logging.GraphName(g.Name()),
		logging.Count(len(inputs)))
}
