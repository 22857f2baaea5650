package dag

import (
	"errors"
	"fmt"
)

// ErrWiring is the class of every error caused by an invalid graph shape.
var ErrWiring = errors.New("wiring error")

var (
	ErrInvalidNodeName = fmt.Errorf("%w: invalid node name", ErrWiring)
	ErrDuplicateName   = fmt.Errorf("%w: node name already exists in graph", ErrWiring)
	ErrSelfLoop        = fmt.Errorf("%w: node cannot be connected to itself", ErrWiring)
	ErrCycleDetected   = fmt.Errorf("%w: cycle detected in DAG", ErrWiring)
	ErrDuplicateEdge   = fmt.Errorf("%w: edge already exists", ErrWiring)
	ErrMultipleRoots   = fmt.Errorf("%w: graph must have exactly one root node", ErrWiring)
	ErrAlreadyWired    = fmt.Errorf("%w: node already has edges", ErrWiring)
)
