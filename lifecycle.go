package consecution

import "context"

func (n *Node) begin(ctx context.Context) error {
	if n.kind == kindGroupBy {
		n.group = groupState{}
	}
	if b, ok := n.lifecycle().(Beginner); ok {
		return wrapNodeError(n.name, b.Begin(nodeContext{Context: ctx, n: n}))
	}
	return nil
}

// end flushes a group-by node before its Ender runs, so the last batch is
// processed while downstream nodes are still open.
func (n *Node) end(ctx context.Context) error {
	if n.kind == kindGroupBy {
		if err := n.endGroup(ctx); err != nil {
			return err
		}
	}
	if e, ok := n.lifecycle().(Ender); ok {
		return wrapNodeError(n.name, e.End(nodeContext{Context: ctx, n: n}))
	}
	return nil
}

func (n *Node) reset(ctx context.Context) error {
	if n.kind == kindGroupBy {
		n.group = groupState{}
	}
	if r, ok := n.lifecycle().(Resetter); ok {
		return wrapNodeError(n.name, r.Reset(nodeContext{Context: ctx, n: n}))
	}
	return nil
}
