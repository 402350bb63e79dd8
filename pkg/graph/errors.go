package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrDuplicateNode     = errors.New("duplicate node name")
	ErrNodeNotFound      = errors.New("node not found")
	ErrGraphCycle        = errors.New("graph contains a cycle")
	ErrInlineData        = errors.New("in-memory constant has no payload to inline")
	ErrAttributeExists   = errors.New("attribute already bound to a subgraph")
	ErrForeignNode       = errors.New("node does not belong to this graph")
	ErrInvalidDesc       = errors.New("invalid graph description")
)

// Error provides structured error information for graph operations.
type Error struct {
	Op    string // Operation that failed (e.g. "AddNode", "InlineInitializer")
	Graph string // Graph name
	Name  string // Node or value name (if applicable)
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Graph, e.Name, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Graph, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func opError(op string, g *Graph, name string, cause error) error {
	return &Error{Op: op, Graph: g.Name(), Name: name, Cause: cause}
}
