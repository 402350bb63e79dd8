package offload

import (
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-offload/pkg/graph"
	"github.com/dd0wney/cluso-offload/pkg/logging"
)

// Session scopes the offload machinery to one model compilation: it owns the
// context store, a builder and a resolver, and enforces the phase order
// between them. A session is confined to a single compilation thread; hosts
// compiling multiple models concurrently must use one session per model.
type Session struct {
	id       uuid.UUID
	store    *ContextStore
	builder  *ContextBuilder
	resolver *Resolver
	log      logging.Logger
}

// NewSession creates a fresh compilation session. A nil logger falls back to
// the package default.
func NewSession(log logging.Logger) *Session {
	if log == nil {
		log = logging.DefaultLogger()
	}
	store := NewContextStore()
	id := uuid.New()
	log = log.With(logging.Session(id.String()))
	return &Session{
		id:       id,
		store:    store,
		builder:  NewContextBuilder(store, log),
		resolver: NewResolver(store, log),
		log:      log,
	}
}

// ID returns the session's unique id
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Store returns the session's context store
func (s *Session) Store() *ContextStore {
	return s.store
}

// Builder returns the session's context builder
func (s *Session) Builder() *ContextBuilder {
	return s.builder
}

// Resolver returns the session's resolver
func (s *Session) Resolver() *Resolver {
	return s.resolver
}

// Prepare runs the three phases in order over one candidate/original pair:
// context build over the candidate tree, outer-scope resolution against the
// original, then input reconciliation of the candidate's top level. After
// Prepare succeeds the candidate is ready for the host's structural
// validation.
func (s *Session) Prepare(candidate, original *graph.Graph) error {
	if err := s.builder.Build(candidate); err != nil {
		return err
	}
	if err := s.resolver.ResolveOuterScopeValues(candidate, original); err != nil {
		return err
	}
	s.resolver.ReconcileInputs(candidate)
	return nil
}
