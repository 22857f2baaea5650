package dag

import (
	"fmt"
	"strings"
)

// ValidateEdges checks a batch of edges against the current graph without
// changing it. Checks run in this order: duplicate names across all joined
// components, self-loops, cycles, duplicate edges.
func (g *Graph[T]) ValidateEdges(edges ...Edge) error {
	ids := make([]NodeID, 0, 2*len(edges))
	for _, e := range edges {
		ids = append(ids, e.From, e.To)
	}
	if err := g.ValidateNames(ids...); err != nil {
		return err
	}

	for _, e := range edges {
		if err := g.ValidateAcyclic(e.From, e.To); err != nil {
			return err
		}
	}

	seen := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok || g.hasEdge(e.From, e.To) {
			return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, g.Name(e.From), g.Name(e.To))
		}
		seen[e] = struct{}{}
	}

	return nil
}

// ValidateNames checks that joining the components of all given vertices
// would not put two distinct vertices with the same name into one graph.
func (g *Graph[T]) ValidateNames(ids ...NodeID) error {
	byName := make(map[string]NodeID)
	visited := make(map[NodeID]struct{})
	for _, start := range ids {
		if _, ok := visited[start]; ok {
			continue
		}
		for _, id := range g.Walk(start, Both, BreadthFirst) {
			visited[id] = struct{}{}
			name := g.vertices[id].name
			if other, ok := byName[name]; ok && other != id {
				return fmt.Errorf("%w: a node named %q already exists", ErrDuplicateName, name)
			}
			byName[name] = id
		}
	}
	return nil
}

// ValidateNewName checks that a vertex called name could join the
// components of ids.
func (g *Graph[T]) ValidateNewName(name string, ids ...NodeID) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	for _, start := range ids {
		for _, id := range g.Walk(start, Both, BreadthFirst) {
			if g.vertices[id].name == name {
				return fmt.Errorf("%w: a node named %q already exists", ErrDuplicateName, name)
			}
		}
	}
	return nil
}

// ValidateAcyclic checks that from -> to would not close a cycle: nothing
// upstream of from (from included) may be downstream of to (to included).
func (g *Graph[T]) ValidateAcyclic(from, to NodeID) error {
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfLoop, g.Name(from))
	}

	upstream := g.WalkSet(from, Up)
	for _, id := range g.Walk(to, Down, DepthFirst) {
		if _, ok := upstream[id]; ok {
			return fmt.Errorf("%w: %s", ErrCycleDetected, g.cyclePath(from, to))
		}
	}
	return nil
}

// cyclePath renders the cycle the edge from -> to would close. A cycle
// implies from is reachable from to.
func (g *Graph[T]) cyclePath(from, to NodeID) string {
	parent := map[NodeID]NodeID{to: to}
	queue := []NodeID{to}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == from {
			break
		}
		for _, d := range g.vertices[id].down {
			if _, ok := parent[d]; !ok {
				parent[d] = id
				queue = append(queue, d)
			}
		}
	}

	var back []string
	for id := from; id != to; id = parent[id] {
		back = append(back, g.Name(id))
	}
	path := []string{g.Name(from), g.Name(to)}
	for i := len(back) - 1; i >= 0; i-- {
		path = append(path, back[i])
	}
	return strings.Join(path, " -> ")
}

func (g *Graph[T]) hasEdge(from, to NodeID) bool {
	for _, d := range g.vertices[from].down {
		if d == to {
			return true
		}
	}
	return false
}
