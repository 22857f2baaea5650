package consecution

import (
	"fmt"

	"github.com/birdayz/consecution/dag"
)

// AddDownstream adds a single edge n -> other.
func (n *Node) AddDownstream(other *Node) error {
	if err := n.owns(other); err != nil {
		return err
	}
	return n.b.graph.AddEdge(n.id, other.id)
}

// Connect wires targets downstream of this node's graph fragment. Each
// target is a *Node, a Route, or a slice of them ([]*Node or []any, nested
// slices are flattened):
//
//   - one node: every terminal of this fragment feeds every initial node of
//     the target's fragment
//   - several nodes: broadcast, every terminal feeds every listed node
//   - nodes plus one Route: a router node is synthesized between the
//     terminals and the listed nodes
//
// Many-to-many connections are rejected. All edges are validated before any
// is committed.
func (n *Node) Connect(targets ...any) error {
	nodes, routes, err := n.b.flatten(targets)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: connecting to %s", ErrNoNodes, n.name)
	}
	if len(routes) > 1 {
		return fmt.Errorf("%w: got %d", ErrMultipleRoutes, len(routes))
	}

	terminals := n.Terminals()
	if len(routes) == 1 {
		return n.b.connectRouted(terminals, nodes, routes[0])
	}

	var initials []*Node
	for _, t := range nodes {
		initials = append(initials, t.Initials()...)
	}
	if len(terminals) > 1 && len(initials) > 1 {
		return fmt.Errorf("%w: %v to %v", ErrManyToMany, terminals, initials)
	}

	return n.b.graph.AddEdges(edges(terminals, initials)...)
}

// ConnectFrom wires upstreams into the initial nodes of this node's graph
// fragment. It is the reverse of Connect and takes the same element types,
// without routes.
func (n *Node) ConnectFrom(upstreams ...any) error {
	nodes, routes, err := n.b.flatten(upstreams)
	if err != nil {
		return err
	}
	if len(routes) > 0 {
		return fmt.Errorf("%w: routes can only be connected downstream", ErrUnknownElement)
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: connecting into %s", ErrNoNodes, n.name)
	}

	var terminals []*Node
	for _, u := range nodes {
		terminals = append(terminals, u.Terminals()...)
	}
	initials := n.Initials()
	if len(terminals) > 1 && len(initials) > 1 {
		return fmt.Errorf("%w: %v to %v", ErrManyToMany, terminals, initials)
	}

	return n.b.graph.AddEdges(edges(terminals, initials)...)
}

// Chain connects stages left to right and returns the first node of the
// chain. A stage is a *Node or a slice as accepted by Connect. A leading
// slice is attached into the stage that follows it.
//
//	consecution.Chain(a, b, []any{c, d}, []any{even, odd, route}, g)
func Chain(stages ...any) (*Node, error) {
	if len(stages) == 0 {
		return nil, ErrNoNodes
	}

	rest := stages[1:]
	head, ok := stages[0].(*Node)
	if !ok {
		if len(rest) == 0 {
			return nil, fmt.Errorf("%w: a chain cannot start with %T alone", ErrUnknownElement, stages[0])
		}
		head, ok = rest[0].(*Node)
		if !ok {
			return nil, fmt.Errorf("%w: a leading list must be followed by a node, got %T", ErrUnknownElement, rest[0])
		}
		if head == nil {
			return nil, ErrNotANode
		}
		if err := head.ConnectFrom(stages[0]); err != nil {
			return nil, err
		}
		rest = rest[1:]
	}
	if head == nil {
		return nil, ErrNotANode
	}

	for _, stage := range rest {
		if err := head.Connect(stage); err != nil {
			return nil, err
		}
	}
	return head, nil
}

// MustChain is like Chain but panics on error.
func MustChain(stages ...any) *Node {
	n, err := Chain(stages...)
	must(err)
	return n
}

func (b *Builder) connectRouted(upstream, destinations []*Node, route Route) error {
	if err := route.validate(); err != nil {
		return err
	}

	endpoints := make(map[string]*Node, len(destinations))
	names := make([]string, len(destinations))
	ids := make([]dag.NodeID, 0, len(upstream)+len(destinations))
	for _, u := range upstream {
		ids = append(ids, u.id)
	}
	for i, d := range destinations {
		initials := d.Initials()
		if len(initials) != 1 {
			return fmt.Errorf("%w: routed destination %s has %d entry nodes", ErrManyToMany, d.name, len(initials))
		}
		entry := initials[0]
		names[i] = entry.name
		endpoints[entry.name] = entry
		ids = append(ids, entry.id)
	}

	// Validate as if upstream fed the destinations directly; the router in
	// between adds no paths of its own.
	name := routerName(upstream, route.label)
	if err := b.graph.ValidateNames(ids...); err != nil {
		return err
	}
	if err := b.graph.ValidateNewName(name, ids...); err != nil {
		return err
	}
	for _, u := range upstream {
		for _, dest := range names {
			if err := b.graph.ValidateAcyclic(u.id, endpoints[dest].id); err != nil {
				return err
			}
		}
	}

	r, err := b.add(name, kindRouter, func(n *Node) {
		n.router = &router{route: route, destinations: names, endpoints: endpoints}
	}, nil)
	if err != nil {
		return err
	}

	var wire []dag.Edge
	for _, u := range upstream {
		wire = append(wire, dag.Edge{From: u.id, To: r.id})
	}
	for _, dest := range names {
		wire = append(wire, dag.Edge{From: r.id, To: endpoints[dest].id})
	}
	if err := b.graph.AddEdges(wire...); err != nil {
		return err
	}

	b.log.V(1).Info("Synthesized router", "router", name, "destinations", names)
	return nil
}

func (b *Builder) flatten(elements []any) ([]*Node, []Route, error) {
	var (
		nodes  []*Node
		routes []Route
	)

	var walk func(el any) error
	walk = func(el any) error {
		switch v := el.(type) {
		case *Node:
			if v == nil || v.b != b {
				return fmt.Errorf("%w: %v", ErrNotANode, v)
			}
			nodes = append(nodes, v)
		case Route:
			routes = append(routes, v)
		case *Route:
			if v == nil {
				return fmt.Errorf("%w: nil route", ErrInvalidRoute)
			}
			routes = append(routes, *v)
		case []*Node:
			for _, n := range v {
				if err := walk(n); err != nil {
					return err
				}
			}
		case []any:
			for _, e := range v {
				if err := walk(e); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("%w: don't know what to do with %v (%T)", ErrUnknownElement, el, el)
		}
		return nil
	}

	for _, el := range elements {
		if err := walk(el); err != nil {
			return nil, nil, err
		}
	}
	return nodes, routes, nil
}

func (n *Node) owns(other *Node) error {
	if other == nil || other.b != n.b {
		return fmt.Errorf("%w: %v", ErrNotANode, other)
	}
	return nil
}

func edges(from, to []*Node) []dag.Edge {
	out := make([]dag.Edge, 0, len(from)*len(to))
	for _, f := range from {
		for _, t := range to {
			out = append(out, dag.Edge{From: f.id, To: t.id})
		}
	}
	return out
}
