package consecution

import (
	"fmt"

	"github.com/birdayz/consecution/dag"
	"github.com/go-logr/logr"
)

// Builder owns every node created through it. Nodes can only be wired to
// nodes of the same builder.
//
// IMPORTANT: Builder is NOT safe for concurrent use.
type Builder struct {
	graph *dag.Graph[*Node]
	log   logr.Logger
}

type BuilderOption func(*Builder)

// WithBuilderLogr sets the logger used while wiring.
var WithBuilderLogr = func(log logr.Logger) BuilderOption {
	return func(b *Builder) {
		b.log = log
	}
}

// NewBuilder creates an empty builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		graph: dag.NewGraph[*Node](),
		log:   logr.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NodeOption configures a node at creation.
type NodeOption func(*Node) error

// WithLogging turns on node logging for dir. It may be given once per
// direction.
var WithLogging = func(dir LogDirection) NodeOption {
	return func(n *Node) error {
		return n.Log(dir)
	}
}

// AddNode creates a processing node. A nil processor is allowed; the node
// then fails with ErrNotImplemented the first time it receives an item.
func (b *Builder) AddNode(name string, p Processor, opts ...NodeOption) (*Node, error) {
	return b.add(name, kindProcessor, func(n *Node) {
		n.proc = p
	}, opts)
}

// MustAddNode is like AddNode but panics on error.
func (b *Builder) MustAddNode(name string, p Processor, opts ...NodeOption) *Node {
	n, err := b.AddNode(name, p, opts...)
	must(err)
	return n
}

// AddGroupByNode creates a node that batches consecutive items sharing the
// same key. See Grouper.
func (b *Builder) AddGroupByNode(name string, g Grouper, opts ...NodeOption) (*Node, error) {
	return b.add(name, kindGroupBy, func(n *Node) {
		n.grouper = g
	}, opts)
}

// MustAddGroupByNode is like AddGroupByNode but panics on error.
func (b *Builder) MustAddGroupByNode(name string, g Grouper, opts ...NodeOption) *Node {
	n, err := b.AddGroupByNode(name, g, opts...)
	must(err)
	return n
}

func (b *Builder) add(name string, kind nodeKind, init func(*Node), opts []NodeOption) (*Node, error) {
	if err := dag.ValidateName(name); err != nil {
		return nil, err
	}

	n := &Node{b: b, name: name, kind: kind}
	init(n)
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, fmt.Errorf("node %s: %w", name, err)
		}
	}

	id, err := b.graph.Add(name, n)
	if err != nil {
		return nil, err
	}
	n.id = id
	return n, nil
}

func (b *Builder) node(id dag.NodeID) *Node {
	return b.graph.Value(id)
}

func (b *Builder) nodes(ids []dag.NodeID) []*Node {
	out := make([]*Node, len(ids))
	for i, id := range ids {
		out[i] = b.graph.Value(id)
	}
	return out
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
