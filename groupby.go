package consecution

import (
	"context"
	"fmt"
	"reflect"
)

// Grouper drives a group-by node. Items must arrive already grouped: every
// run of consecutive items with an equal Key becomes one batch, handed to
// ProcessBatch when the key changes and once more when the pipeline ends.
// Keys must be comparable.
//
// A Grouper may also implement Beginner, Ender and Resetter.
type Grouper interface {
	Key(item any) (any, error)
	ProcessBatch(ctx Context, batch []any) error
}

// GroupFuncs builds a Grouper from functions. A nil function makes the node
// fail with ErrNotImplemented on its first item.
type GroupFuncs struct {
	KeyFunc   func(item any) (any, error)
	BatchFunc func(ctx Context, batch []any) error
}

func (g GroupFuncs) Key(item any) (any, error) {
	if g.KeyFunc == nil {
		return nil, fmt.Errorf("%w: no key function", ErrNotImplemented)
	}
	return g.KeyFunc(item)
}

func (g GroupFuncs) ProcessBatch(ctx Context, batch []any) error {
	if g.BatchFunc == nil {
		return fmt.Errorf("%w: no batch function", ErrNotImplemented)
	}
	return g.BatchFunc(ctx, batch)
}

func (g GroupFuncs) implemented() error {
	switch {
	case g.KeyFunc == nil:
		return fmt.Errorf("%w: no key function", ErrNotImplemented)
	case g.BatchFunc == nil:
		return fmt.Errorf("%w: no batch function", ErrNotImplemented)
	}
	return nil
}

type groupState struct {
	batch   []any
	lastKey any
	hasKey  bool
}

func (n *Node) ingest(ctx context.Context, item any) error {
	if err := n.checkGrouper(); err != nil {
		return &NodeError{Node: n.name, Err: err}
	}

	key, err := n.grouper.Key(item)
	if err != nil {
		return wrapNodeError(n.name, err)
	}
	if key != nil && !reflect.ValueOf(key).Comparable() {
		return &NodeError{Node: n.name, Err: fmt.Errorf("%w: %T", ErrUncomparableKey, key)}
	}

	if n.group.hasKey && key != n.group.lastKey {
		if err := n.flush(ctx); err != nil {
			return err
		}
	}
	n.group.lastKey, n.group.hasKey = key, true
	n.group.batch = append(n.group.batch, item)
	return nil
}

func (n *Node) checkGrouper() error {
	if n.grouper == nil {
		return fmt.Errorf("%w: node %s has no grouper", ErrNotImplemented, n.name)
	}
	if g, ok := n.grouper.(GroupFuncs); ok {
		return g.implemented()
	}
	return nil
}

func (n *Node) flush(ctx context.Context) error {
	batch := n.group.batch
	n.group.batch = nil
	if err := n.checkGrouper(); err != nil {
		return &NodeError{Node: n.name, Err: err}
	}
	return wrapNodeError(n.name, n.grouper.ProcessBatch(nodeContext{Context: ctx, n: n}, batch))
}

// endGroup flushes whatever is buffered, even an empty batch, and forgets
// the last key.
func (n *Node) endGroup(ctx context.Context) error {
	err := n.flush(ctx)
	n.group = groupState{}
	return err
}
