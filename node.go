package consecution

import (
	"fmt"

	"github.com/birdayz/consecution/dag"
)

type nodeKind int

const (
	kindProcessor nodeKind = iota
	kindRouter
	kindGroupBy
)

// Direction and Order select how Node.Walk traverses the graph.
type (
	Direction = dag.Direction
	Order     = dag.Order
)

const (
	Down = dag.Down
	Up   = dag.Up
	Both = dag.Both

	DepthFirst   = dag.DepthFirst
	BreadthFirst = dag.BreadthFirst
)

// LogDirection selects which side of a node is written to the node log.
type LogDirection int

const (
	// LogInput logs every item a node receives, before it is processed.
	LogInput LogDirection = iota + 1
	// LogOutput logs every item a node pushes, before it is delivered.
	LogOutput
)

func (d LogDirection) String() string {
	switch d {
	case LogInput:
		return "input"
	case LogOutput:
		return "output"
	default:
		return fmt.Sprintf("LogDirection(%d)", int(d))
	}
}

// Node is a processing stage. Nodes are created by a Builder and are
// identified by their builder-assigned id; two nodes are the same node only
// if they are the same pointer.
type Node struct {
	b    *Builder
	id   dag.NodeID
	name string
	kind nodeKind

	proc    Processor
	grouper Grouper
	router  *router

	logIn, logOut bool

	// Set while adopted by a pipeline.
	p       *Pipeline
	mode    dispatchMode
	push    pushMode
	next    *Node
	targets []*Node

	group groupState
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) String() string {
	return fmt.Sprintf("N(%s)", n.name)
}

// Pipeline returns the pipeline this node was last adopted by, or nil.
func (n *Node) Pipeline() *Pipeline {
	return n.p
}

// Log turns on node logging for dir. Logging takes effect the next time
// the pipeline begins.
func (n *Node) Log(dir LogDirection) error {
	switch dir {
	case LogInput:
		n.logIn = true
	case LogOutput:
		n.logOut = true
	default:
		return fmt.Errorf("%w: got %v", ErrInvalidLogDirection, dir)
	}
	return nil
}

// Upstream returns the direct upstream nodes in wiring order.
func (n *Node) Upstream() []*Node {
	return n.b.nodes(n.b.graph.Upstream(n.id))
}

// Downstream returns the direct downstream nodes in wiring order.
func (n *Node) Downstream() []*Node {
	return n.b.nodes(n.b.graph.Downstream(n.id))
}

// Walk returns this node and every node reachable from it in direction dir,
// in visiting order.
func (n *Node) Walk(dir Direction, order Order) []*Node {
	return n.b.nodes(n.b.graph.Walk(n.id, dir, order))
}

// AllNodes returns every node connected to this one in either direction.
func (n *Node) AllNodes() []*Node {
	return n.b.nodes(n.b.graph.Members(n.id))
}

// RootNodes returns the nodes of this graph without upstream nodes.
func (n *Node) RootNodes() []*Node {
	return n.b.nodes(n.b.graph.Roots(n.id))
}

// TopNode returns the single root of this graph.
func (n *Node) TopNode() (*Node, error) {
	id, err := n.b.graph.Top(n.id)
	if err != nil {
		return nil, err
	}
	return n.b.node(id), nil
}

// Terminals returns the nodes downstream of this one, itself included, that
// have no downstream nodes.
func (n *Node) Terminals() []*Node {
	return n.b.nodes(n.b.graph.Terminals(n.id))
}

// Initials returns the nodes upstream of this one, itself included, that
// have no upstream nodes.
func (n *Node) Initials() []*Node {
	return n.b.nodes(n.b.graph.Initials(n.id))
}

// lifecycle returns the value carrying the user's optional lifecycle hooks.
func (n *Node) lifecycle() any {
	switch n.kind {
	case kindGroupBy:
		return n.grouper
	case kindProcessor:
		return n.proc
	default:
		return nil
	}
}
