package types

import (
	"errors"
	"fmt"
)

var (
	// ErrDepthExceeded aborts a query whose recursion outgrew Options.MaxDepth,
	// which only happens for cyclic declarations.
	ErrDepthExceeded = errors.New("types: recursion depth guard exceeded")
	// ErrNotClassType is returned when a class or interface type was required.
	ErrNotClassType = errors.New("types: not a class or interface type")
)

// TypeArityError reports a wrong number of type arguments.
type TypeArityError struct {
	Name string
	Want int
	Got  int
}

func (e *TypeArityError) Error() string {
	return fmt.Sprintf("types: %s expects %d type argument(s), got %d", e.Name, e.Want, e.Got)
}

// UnresolvedSymbolError reports a declaration the lookup does not know.
// Queries never raise it: unresolved names become unresolved symbols. Only
// bootstrapping a registry without a root class fails with it.
type UnresolvedSymbolError struct {
	Name string
}

func (e *UnresolvedSymbolError) Error() string {
	return fmt.Sprintf("types: cannot resolve symbol %s", e.Name)
}

// InvalidBoundError reports a structurally invalid bound, argument, member
// or array component.
type InvalidBoundError struct {
	Type   string
	Reason string
}

func (e *InvalidBoundError) Error() string {
	return fmt.Sprintf("types: invalid bound %s: %s", e.Type, e.Reason)
}
