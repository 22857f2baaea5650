// Package processors holds ready-made processors and groupers.
package processors

import (
	"fmt"

	"github.com/birdayz/consecution"
)

// ForEach calls fn for every item and hands the item on unchanged.
func ForEach[T any](fn func(T)) consecution.Processor {
	return consecution.Typed(func(ctx consecution.Context, item T) error {
		fn(item)
		return ctx.Push(item)
	})
}

// Map pushes fn's result for every item.
func Map[In, Out any](fn func(In) (Out, error)) consecution.Processor {
	return consecution.Typed(func(ctx consecution.Context, item In) error {
		out, err := fn(item)
		if err != nil {
			return err
		}
		return ctx.Push(out)
	})
}

// Filter hands on the items keep accepts and drops the rest.
func Filter[T any](keep func(T) bool) consecution.Processor {
	return consecution.Typed(func(ctx consecution.Context, item T) error {
		if !keep(item) {
			return nil
		}
		return ctx.Push(item)
	})
}

// Collect appends every item to the []T stored under key in the global
// state. The slice is emptied when the pipeline begins.
func Collect[T any](key string) consecution.Processor {
	return &collector[T]{key: key}
}

type collector[T any] struct {
	key string
}

func (c *collector[T]) Begin(ctx consecution.Context) error {
	ctx.GlobalState().Set(c.key, []T{})
	return nil
}

func (c *collector[T]) Process(ctx consecution.Context, item any) error {
	v, ok := item.(T)
	if !ok {
		return fmt.Errorf("%w: collect %s: got %T", consecution.ErrItemType, c.key, item)
	}
	consecution.Append(ctx.GlobalState(), c.key, v)
	return nil
}
