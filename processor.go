package consecution

import (
	"context"
	"fmt"
	"runtime"
)

// Processor handles one item at a time. Results are handed on with
// ctx.Push; a processor that never pushes is a sink.
type Processor interface {
	Process(ctx Context, item any) error
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(ctx Context, item any) error

func (f ProcessorFunc) Process(ctx Context, item any) error {
	return f(ctx, item)
}

// Beginner is implemented by processors that need setup before the first
// item. Begin runs top-down, before any item is consumed; pushing from Begin
// fails with ErrPushInBegin.
type Beginner interface {
	Begin(ctx Context) error
}

// Ender is implemented by processors that need to act after the last item.
// End runs top-down, so pushing from End reaches nodes that have not ended
// yet.
type Ender interface {
	End(ctx Context) error
}

// Resetter is implemented by processors holding state that Pipeline.Reset
// should clear.
type Resetter interface {
	Reset(ctx Context) error
}

// Typed adapts a function over a concrete item type. Items of any other type
// fail with ErrItemType.
func Typed[T any](fn func(ctx Context, item T) error) Processor {
	return ProcessorFunc(func(ctx Context, item any) error {
		v, ok := item.(T)
		if !ok {
			return fmt.Errorf("%w: want %T, got %T", ErrItemType, *new(T), item)
		}
		return fn(ctx, v)
	})
}

// Context is handed to every processor call.
type Context interface {
	context.Context

	// Name of the node being invoked.
	Name() string
	// Node being invoked.
	Node() *Node
	// Push sends item to every downstream node of this node, synchronously.
	Push(item any) error
	// GlobalState shared by all nodes of the pipeline.
	GlobalState() *GlobalState
	// Pipeline driving this node.
	Pipeline() *Pipeline
}

type nodeContext struct {
	context.Context
	n *Node
}

var _ = Context(nodeContext{})

func (c nodeContext) Name() string {
	return c.n.name
}

func (c nodeContext) Node() *Node {
	return c.n
}

func (c nodeContext) GlobalState() *GlobalState {
	if c.n.p == nil {
		return nil
	}
	return c.n.p.global
}

func (c nodeContext) Pipeline() *Pipeline {
	return c.n.p
}

func (c nodeContext) Push(item any) error {
	if c.n.p == nil {
		return fmt.Errorf("%w: %s", ErrNotInPipeline, c.n.name)
	}
	if c.n.push == pushUnresolved {
		_, file, line, _ := runtime.Caller(1)
		return fmt.Errorf("%w: node %s pushed from begin at %s:%d", ErrPushInBegin, c.n.name, file, line)
	}
	return c.n.pushItem(c.Context, item)
}
