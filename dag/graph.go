package dag

import (
	"fmt"
	"strings"
)

// NodeID is the stable arena index of a vertex. IDs are assigned in creation
// order and never reused.
type NodeID int

// ValidateName checks a vertex name. Names must be non-empty and cannot
// contain whitespace.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidNodeName)
	}
	if strings.ContainsAny(name, " \t\n\r") {
		return fmt.Errorf("%w: name %q cannot contain whitespace", ErrInvalidNodeName, name)
	}
	return nil
}

type vertex[T any] struct {
	name  string
	value T

	// Edges in wiring order.
	up   []NodeID
	down []NodeID
}

// Graph is an arena of named vertices joined by directed edges. A single
// arena may hold several disconnected components; every query takes a
// starting vertex and only ever looks at that vertex's component.
//
// Graph is NOT safe for concurrent use.
type Graph[T any] struct {
	vertices []*vertex[T]
}

// NewGraph creates an empty arena.
func NewGraph[T any]() *Graph[T] {
	return &Graph[T]{}
}

// Add creates a new, unconnected vertex.
func (g *Graph[T]) Add(name string, value T) (NodeID, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	g.vertices = append(g.vertices, &vertex[T]{name: name, value: value})
	return NodeID(len(g.vertices) - 1), nil
}

// Len returns the number of vertices in the arena across all components.
func (g *Graph[T]) Len() int {
	return len(g.vertices)
}

// Contains reports whether id was handed out by this arena.
func (g *Graph[T]) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.vertices)
}

func (g *Graph[T]) Name(id NodeID) string {
	return g.vertices[id].name
}

func (g *Graph[T]) Value(id NodeID) T {
	return g.vertices[id].value
}

// Upstream returns the direct predecessors of id in wiring order. The
// returned slice must not be modified.
func (g *Graph[T]) Upstream(id NodeID) []NodeID {
	return g.vertices[id].up
}

// Downstream returns the direct successors of id in wiring order. The
// returned slice must not be modified.
func (g *Graph[T]) Downstream(id NodeID) []NodeID {
	return g.vertices[id].down
}

// Edge is a directed connection From -> To.
type Edge struct {
	From NodeID
	To   NodeID
}

// AddEdge connects from -> to after validating the edge.
func (g *Graph[T]) AddEdge(from, to NodeID) error {
	return g.AddEdges(Edge{From: from, To: to})
}

// AddEdges validates every edge, and only then commits all of them. On
// error the adjacency of every vertex is left untouched.
func (g *Graph[T]) AddEdges(edges ...Edge) error {
	if err := g.ValidateEdges(edges...); err != nil {
		return err
	}
	for _, e := range edges {
		g.vertices[e.From].down = append(g.vertices[e.From].down, e.To)
		g.vertices[e.To].up = append(g.vertices[e.To].up, e.From)
	}
	return nil
}

// Replace moves every edge of old onto replacement, keeping each edge at
// its original position in the neighbours' adjacency lists. replacement
// must not have any edges yet. old is left unconnected in the arena.
func (g *Graph[T]) Replace(old, replacement NodeID) error {
	if old == replacement {
		return nil
	}
	r := g.vertices[replacement]
	if len(r.up) > 0 || len(r.down) > 0 {
		return fmt.Errorf("%w: %s", ErrAlreadyWired, r.name)
	}

	members := g.WalkSet(old, Both)
	for id := range members {
		if id != old && g.vertices[id].name == r.name {
			return fmt.Errorf("%w: %s", ErrDuplicateName, r.name)
		}
	}

	o := g.vertices[old]
	for _, u := range o.up {
		swap(g.vertices[u].down, old, replacement)
	}
	for _, d := range o.down {
		swap(g.vertices[d].up, old, replacement)
	}
	r.up, r.down = o.up, o.down
	o.up, o.down = nil, nil

	return nil
}

func swap(ids []NodeID, from, to NodeID) {
	for i, id := range ids {
		if id == from {
			ids[i] = to
		}
	}
}
