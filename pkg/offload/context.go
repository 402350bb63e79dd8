package offload

import (
	"sort"

	"golang.org/x/exp/maps"

	"github.com/dd0wney/cluso-offload/pkg/graph"
)

// SubGraphContext is the per-graph bookkeeping computed by the context
// builder. output_args and inputs_and_initializers are written exactly once
// per graph identity; manually added inputs grow monotonically as nested
// subgraphs are resolved.
type SubGraphContext struct {
	outputArgs            map[string]struct{}
	inputsAndInitializers map[string]*graph.NodeArg
	inputOrder            []string

	manualInputs map[string]*graph.NodeArg
	manualOrder  []string
}

func newSubGraphContext() *SubGraphContext {
	return &SubGraphContext{
		outputArgs:            make(map[string]struct{}),
		inputsAndInitializers: make(map[string]*graph.NodeArg),
		manualInputs:          make(map[string]*graph.NodeArg),
	}
}

// HasOutputArg reports whether the named value is produced by a node in the
// context's graph
func (c *SubGraphContext) HasOutputArg(name string) bool {
	_, ok := c.outputArgs[name]
	return ok
}

// HasInputOrInitializer reports whether the named value is consumed by the
// context's graph without being produced locally
func (c *SubGraphContext) HasInputOrInitializer(name string) bool {
	_, ok := c.inputsAndInitializers[name]
	return ok
}

// HasManualInput reports whether the named value has already been promoted
// to an explicit top-level input
func (c *SubGraphContext) HasManualInput(name string) bool {
	_, ok := c.manualInputs[name]
	return ok
}

// OutputArgs returns the locally produced value names, sorted
func (c *SubGraphContext) OutputArgs() []string {
	names := maps.Keys(c.outputArgs)
	sort.Strings(names)
	return names
}

// InputsAndInitializers returns the non-locally-produced inputs in the order
// they were first recorded
func (c *SubGraphContext) InputsAndInitializers() []*graph.NodeArg {
	args := make([]*graph.NodeArg, 0, len(c.inputOrder))
	for _, name := range c.inputOrder {
		args = append(args, c.inputsAndInitializers[name])
	}
	return args
}

// ManualInputs returns the promoted inputs in promotion order
func (c *SubGraphContext) ManualInputs() []*graph.NodeArg {
	args := make([]*graph.NodeArg, 0, len(c.manualOrder))
	for _, name := range c.manualOrder {
		args = append(args, c.manualInputs[name])
	}
	return args
}

func (c *SubGraphContext) recordOutputArg(name string) {
	c.outputArgs[name] = struct{}{}
}

func (c *SubGraphContext) recordInput(arg *graph.NodeArg) {
	if _, ok := c.inputsAndInitializers[arg.Name()]; ok {
		return
	}
	c.inputsAndInitializers[arg.Name()] = arg
	c.inputOrder = append(c.inputOrder, arg.Name())
}

func (c *SubGraphContext) addManualInput(arg *graph.NodeArg) {
	if _, ok := c.manualInputs[arg.Name()]; ok {
		return
	}
	c.manualInputs[arg.Name()] = arg
	c.manualOrder = append(c.manualOrder, arg.Name())
}

// Phase tags the store's build lifecycle so passes can enforce ordering
// instead of relying on call order.
type Phase int

const (
	// PhasePending means the context builder has not completed yet
	PhasePending Phase = iota
	// PhaseBuilt means at least one graph tree has its contexts populated
	PhaseBuilt
)

// ContextStore is the registry of subgraph contexts for one compilation
// session, keyed by graph identity. It is exclusively owned by a single
// compilation thread; concurrent compilations must each use their own store.
type ContextStore struct {
	contexts map[string]*SubGraphContext
	phase    Phase
}

// NewContextStore creates an empty store in the pending phase
func NewContextStore() *ContextStore {
	return &ContextStore{contexts: make(map[string]*SubGraphContext)}
}

// GetOrCreate returns the context for the identity, inserting an empty one on
// first access. Only the context builder should create entries.
func (s *ContextStore) GetOrCreate(identity string) *SubGraphContext {
	if ctx, ok := s.contexts[identity]; ok {
		return ctx
	}
	ctx := newSubGraphContext()
	s.contexts[identity] = ctx
	return ctx
}

// Get returns the context for the identity, if present
func (s *ContextStore) Get(identity string) (*SubGraphContext, bool) {
	ctx, ok := s.contexts[identity]
	return ctx, ok
}

// Contains reports whether the identity has a context
func (s *ContextStore) Contains(identity string) bool {
	_, ok := s.contexts[identity]
	return ok
}

// Len returns the number of contexts in the store
func (s *ContextStore) Len() int {
	return len(s.contexts)
}

// Identities returns all identities in the store, sorted
func (s *ContextStore) Identities() []string {
	ids := maps.Keys(s.contexts)
	sort.Strings(ids)
	return ids
}

// Phase returns the store's current lifecycle phase
func (s *ContextStore) Phase() Phase {
	return s.phase
}

func (s *ContextStore) markBuilt() {
	s.phase = PhaseBuilt
}
