package offload

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrContextNotBuilt means a pass that depends on subgraph contexts ran
	// before the context builder completed. Programming-contract violation.
	ErrContextNotBuilt = errors.New("subgraph contexts not built")
	// ErrTopLevelContextMissing means the resolver reached a promotion point
	// but the top-level graph has no context in the store.
	ErrTopLevelContextMissing = errors.New("top-level graph context missing")
	// ErrMaterializeFailed wraps a failed inline materialization request.
	ErrMaterializeFailed = errors.New("inline materialization failed")
	// ErrPartitionRange means a partition references a position outside the
	// topological order it was computed against.
	ErrPartitionRange = errors.New("partition position out of range")
)

// PassError provides structured error information for offload passes.
type PassError struct {
	Pass  string // Pass that failed (e.g. "context-build", "outer-scope-resolve")
	Graph string // Graph name
	Value string // Value name (if applicable)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *PassError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %s (value %s): %v", e.Pass, e.Graph, e.Value, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Pass, e.Graph, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PassError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *PassError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}
