package dag

import "fmt"

// Direction selects which edges a walk follows.
type Direction int

const (
	Down Direction = iota
	Up
	Both
)

func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Up:
		return "up"
	case Both:
		return "both"
	default:
		return "unknown"
	}
}

// Order selects the search strategy of a walk.
type Order int

const (
	DepthFirst Order = iota
	BreadthFirst
)

func (g *Graph[T]) neighbours(id NodeID, dir Direction) []NodeID {
	v := g.vertices[id]
	switch dir {
	case Up:
		return v.up
	case Both:
		out := make([]NodeID, 0, len(v.up)+len(v.down))
		out = append(out, v.up...)
		return append(out, v.down...)
	default:
		return v.down
	}
}

// Walk returns start and every vertex reachable from it in direction dir,
// each exactly once, in visiting order. Neighbours are pushed onto the back
// of a deque; DepthFirst pops from the back, BreadthFirst from the front.
func (g *Graph[T]) Walk(start NodeID, dir Direction, order Order) []NodeID {
	visited := make(map[NodeID]struct{})
	var out []NodeID

	deque := []NodeID{start}
	for len(deque) > 0 {
		var id NodeID
		if order == BreadthFirst {
			id, deque = deque[0], deque[1:]
		} else {
			id, deque = deque[len(deque)-1], deque[:len(deque)-1]
		}

		if _, ok := visited[id]; ok {
			continue
		}
		visited[id] = struct{}{}
		out = append(out, id)

		for _, n := range g.neighbours(id, dir) {
			if _, ok := visited[n]; !ok {
				deque = append(deque, n)
			}
		}
	}

	return out
}

// WalkSet is Walk without ordering.
func (g *Graph[T]) WalkSet(start NodeID, dir Direction) map[NodeID]struct{} {
	out := make(map[NodeID]struct{})
	for _, id := range g.Walk(start, dir, DepthFirst) {
		out[id] = struct{}{}
	}
	return out
}

// Members returns every vertex of the component containing id.
func (g *Graph[T]) Members(id NodeID) []NodeID {
	return g.Walk(id, Both, BreadthFirst)
}

// Roots returns the vertices of id's component that have no upstream.
func (g *Graph[T]) Roots(id NodeID) []NodeID {
	var out []NodeID
	for _, m := range g.Members(id) {
		if len(g.vertices[m].up) == 0 {
			out = append(out, m)
		}
	}
	return out
}

// Top returns the single root of id's component.
func (g *Graph[T]) Top(id NodeID) (NodeID, error) {
	roots := g.Roots(id)
	if len(roots) != 1 {
		names := make([]string, len(roots))
		for i, r := range roots {
			names[i] = g.Name(r)
		}
		return 0, fmt.Errorf("%w: found %d roots %v", ErrMultipleRoots, len(roots), names)
	}
	return roots[0], nil
}

// Terminals returns the vertices downstream of id (id included) that have
// no downstream.
func (g *Graph[T]) Terminals(id NodeID) []NodeID {
	var out []NodeID
	for _, m := range g.Walk(id, Down, BreadthFirst) {
		if len(g.vertices[m].down) == 0 {
			out = append(out, m)
		}
	}
	return out
}

// Initials returns the vertices upstream of id (id included) that have no
// upstream.
func (g *Graph[T]) Initials(id NodeID) []NodeID {
	var out []NodeID
	for _, m := range g.Walk(id, Up, BreadthFirst) {
		if len(g.vertices[m].up) == 0 {
			out = append(out, m)
		}
	}
	return out
}

// TopDown calls visit on start and then on everything downstream of it so
// that a vertex is visited only after all of its upstream vertices. A
// vertex with more than one upstream counts arrivals and proceeds on the
// last one. The first error returned by visit stops the traversal.
func (g *Graph[T]) TopDown(start NodeID, visit func(NodeID) error) error {
	arrivals := make(map[NodeID]int)

	var call func(id NodeID, first bool) error
	call = func(id NodeID, first bool) error {
		if ups := len(g.vertices[id].up); !first && ups > 1 {
			arrivals[id]++
			if arrivals[id] < ups {
				return nil
			}
		}

		if err := visit(id); err != nil {
			return err
		}

		for _, d := range g.vertices[id].down {
			if err := call(d, false); err != nil {
				return err
			}
		}
		return nil
	}

	return call(start, true)
}
