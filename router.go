package consecution

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Route picks the destination of each item when a node fans out to several
// nodes. Exactly one Route may appear in a Connect call; it turns a
// broadcast into a routed fan-out through a synthesized router node named
// "<upstream names>__<label>".
type Route struct {
	label   string
	byName  func(item any) (string, error)
	byIndex func(item any) (int, error)
}

// RouteByName routes each item to the destination whose name fn returns.
func RouteByName(label string, fn func(item any) (string, error)) Route {
	return Route{label: label, byName: fn}
}

// RouteByIndex routes each item to the destination at the index fn returns,
// counted in the order the destinations were listed.
func RouteByIndex(label string, fn func(item any) (int, error)) Route {
	return Route{label: label, byIndex: fn}
}

func (r Route) Label() string {
	return r.label
}

func (r Route) validate() error {
	if r.label == "" {
		return fmt.Errorf("%w: route label cannot be empty", ErrInvalidRoute)
	}
	if r.byName == nil && r.byIndex == nil {
		return fmt.Errorf("%w: route %s has no routing function", ErrInvalidRoute, r.label)
	}
	return nil
}

type router struct {
	route        Route
	destinations []string
	endpoints    map[string]*Node
}

func routerName(upstream []*Node, label string) string {
	names := make([]string, len(upstream))
	for i, n := range upstream {
		names[i] = n.name
	}
	return strings.Join(names, "_") + "__" + label
}

// route forwards an item to the destination chosen by the route, bypassing
// the router's own push.
func (n *Node) route(ctx context.Context, item any) error {
	target, err := n.router.pick(item)
	if err != nil {
		return &NodeError{Node: n.name, Err: err}
	}
	return target.dispatch(ctx, item)
}

func (r *router) pick(item any) (*Node, error) {
	var key string
	if r.route.byIndex != nil {
		i, err := r.route.byIndex(item)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(r.destinations) {
			return nil, fmt.Errorf("%w: route %s returned index %d, valid indexes are 0..%d",
				ErrRouting, r.route.label, i, len(r.destinations)-1)
		}
		key = r.destinations[i]
	} else {
		var err error
		key, err = r.route.byName(item)
		if err != nil {
			return nil, err
		}
	}

	target, ok := r.endpoints[key]
	if !ok {
		valid := maps.Keys(r.endpoints)
		slices.Sort(valid)
		return nil, fmt.Errorf("%w: route %s returned %q, valid keys are %q",
			ErrRouting, r.route.label, key, valid)
	}
	return target, nil
}
