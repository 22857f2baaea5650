package consecution

import (
	"context"
	"fmt"
)

// dispatchMode is how a node receives an item. It is resolved once per
// initialize, never per item.
type dispatchMode int

const (
	dispatchDirect dispatchMode = iota
	dispatchLogged
	dispatchGroupBy
)

// pushMode is how a node hands an item on. pushUnresolved is the state of
// every node until the pipeline has begun.
type pushMode int

const (
	pushUnresolved pushMode = iota
	pushFast
	pushBroadcast
)

func (n *Node) resolveDispatch() {
	switch {
	case n.kind == kindGroupBy:
		n.mode = dispatchGroupBy
	case n.logIn:
		n.mode = dispatchLogged
	default:
		n.mode = dispatchDirect
	}
}

// resolvePush takes the fast path when there is exactly one downstream node
// that neither logs nor groups, and this node does not log its output.
func (n *Node) resolvePush() {
	n.targets = n.Downstream()
	n.next = nil

	if len(n.targets) == 1 && !n.logOut {
		d := n.targets[0]
		if !d.logIn && !d.logOut && d.kind != kindGroupBy {
			n.push = pushFast
			n.next = d
			return
		}
	}
	n.push = pushBroadcast
}

func (n *Node) unresolvePush() {
	n.push = pushUnresolved
	n.next = nil
	n.targets = nil
}

// dispatch delivers an item to this node.
func (n *Node) dispatch(ctx context.Context, item any) error {
	switch n.mode {
	case dispatchGroupBy:
		if n.logIn {
			if err := n.p.nodeLog.write(LogInput, n.name, item); err != nil {
				return err
			}
		}
		return n.ingest(ctx, item)
	case dispatchLogged:
		if err := n.p.nodeLog.write(LogInput, n.name, item); err != nil {
			return err
		}
		return n.invoke(ctx, item)
	default:
		return n.invoke(ctx, item)
	}
}

// invoke runs the node's own logic on an item.
func (n *Node) invoke(ctx context.Context, item any) error {
	if n.kind == kindRouter {
		return n.route(ctx, item)
	}
	if n.proc == nil {
		return &NodeError{Node: n.name, Err: fmt.Errorf("%w: node %s has no processor", ErrNotImplemented, n.name)}
	}
	return wrapNodeError(n.name, n.proc.Process(nodeContext{Context: ctx, n: n}, item))
}

func (n *Node) pushItem(ctx context.Context, item any) error {
	if n.logOut {
		if err := n.p.nodeLog.write(LogOutput, n.name, item); err != nil {
			return err
		}
	}

	if n.push == pushFast {
		return n.next.invoke(ctx, item)
	}
	for _, d := range n.targets {
		if err := d.dispatch(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
