package consecution

import (
	"errors"
	"fmt"

	"github.com/birdayz/consecution/dag"
)

// Error classes. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrWiring         = dag.ErrWiring
	ErrLookup         = errors.New("lookup error")
	ErrRouting        = errors.New("routing error")
	ErrNotImplemented = errors.New("not implemented")
	ErrInvocation     = errors.New("invalid invocation")
	ErrLogging        = errors.New("logging error")
)

var (
	ErrInvalidNodeName = dag.ErrInvalidNodeName
	ErrDuplicateName   = dag.ErrDuplicateName
	ErrSelfLoop        = dag.ErrSelfLoop
	ErrCycleDetected   = dag.ErrCycleDetected
	ErrDuplicateEdge   = dag.ErrDuplicateEdge
	ErrMultipleRoots   = dag.ErrMultipleRoots
	ErrAlreadyWired    = dag.ErrAlreadyWired

	ErrNotANode       = fmt.Errorf("%w: not a node of this builder", ErrWiring)
	ErrManyToMany     = fmt.Errorf("%w: many-to-many connections are not permitted", ErrWiring)
	ErrMultipleRoutes = fmt.Errorf("%w: only one route may be given per connection", ErrWiring)
	ErrNoNodes        = fmt.Errorf("%w: there must be at least one node to connect to", ErrWiring)
	ErrUnknownElement = fmt.Errorf("%w: don't know how to connect element", ErrWiring)
	ErrInvalidRoute   = fmt.Errorf("%w: invalid route", ErrWiring)

	ErrNodeNotFound = fmt.Errorf("%w: node not found", ErrLookup)
	ErrNameMismatch = fmt.Errorf("%w: replacement node must have the same name as the node it replaces", ErrLookup)

	ErrPushInBegin     = fmt.Errorf("%w: push is not allowed in begin", ErrInvocation)
	ErrNotInPipeline   = fmt.Errorf("%w: node is not part of a pipeline", ErrInvocation)
	ErrUncomparableKey = fmt.Errorf("%w: group key is not comparable", ErrInvocation)
	ErrItemType        = fmt.Errorf("%w: unexpected item type", ErrInvocation)

	ErrInvalidLogDirection = fmt.Errorf("%w: log direction must be input or output", ErrLogging)
)

// NodeError reports a failure that originated while a node handled an item
// or ran a lifecycle hook. It is attached once, at the failing node, and is
// passed through unchanged by every upstream node.
type NodeError struct {
	Node string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %s: %v", e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

func wrapNodeError(name string, err error) error {
	if err == nil {
		return nil
	}
	var ne *NodeError
	if errors.As(err, &ne) {
		return err
	}
	return &NodeError{Node: name, Err: err}
}
