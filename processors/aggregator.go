package processors

import (
	"fmt"
	"time"

	"github.com/birdayz/consecution"
)

// Count is pushed by Counter once per run of equal keys.
type Count[K comparable] struct {
	Key K
	N   int
}

// Counter counts consecutive items sharing a key.
func Counter[T any, K comparable](key func(T) K) consecution.Grouper {
	return consecution.GroupFuncs{
		KeyFunc: func(item any) (any, error) {
			v, err := as[T](item)
			if err != nil {
				return nil, err
			}
			return key(v), nil
		},
		BatchFunc: func(ctx consecution.Context, batch []any) error {
			if len(batch) == 0 {
				return nil
			}
			first, err := as[T](batch[0])
			if err != nil {
				return err
			}
			return ctx.Push(Count[K]{Key: key(first), N: len(batch)})
		},
	}
}

// FixedSize hands items to fn in batches of size, in arrival order. The last
// batch may be shorter.
func FixedSize[T any](size int, fn func(ctx consecution.Context, batch []T) error) consecution.Grouper {
	if size < 1 {
		size = 1
	}
	return &fixedSize[T]{size: size, fn: fn}
}

type fixedSize[T any] struct {
	size int
	fn   func(consecution.Context, []T) error
	seen int
}

func (f *fixedSize[T]) Begin(ctx consecution.Context) error {
	f.seen = 0
	return nil
}

func (f *fixedSize[T]) Reset(ctx consecution.Context) error {
	f.seen = 0
	return nil
}

func (f *fixedSize[T]) Key(item any) (any, error) {
	k := f.seen / f.size
	f.seen++
	return k, nil
}

func (f *fixedSize[T]) ProcessBatch(ctx consecution.Context, batch []any) error {
	if len(batch) == 0 {
		return nil
	}
	typed, err := asAll[T](batch)
	if err != nil {
		return err
	}
	return f.fn(ctx, typed)
}

// Window is pushed by Windowed once per time window.
type Window[V any] struct {
	Start time.Time
	Value V
}

// Windowed folds items into tumbling windows of the given size, keyed by the
// truncated item timestamp. Items must arrive in window order; a window is
// pushed as soon as an item of a later window arrives.
func Windowed[T, State, Out any](
	timestamp func(T) time.Time,
	size time.Duration,
	init func() State,
	aggregate func(T, State) State,
	finalize func(State) Out,
) consecution.Grouper {
	start := func(item any) (time.Time, T, error) {
		v, err := as[T](item)
		if err != nil {
			return time.Time{}, v, err
		}
		return timestamp(v).Truncate(size), v, nil
	}

	return consecution.GroupFuncs{
		KeyFunc: func(item any) (any, error) {
			ts, _, err := start(item)
			if err != nil {
				return nil, err
			}
			return ts.UnixNano(), nil
		},
		BatchFunc: func(ctx consecution.Context, batch []any) error {
			if len(batch) == 0 {
				return nil
			}
			state := init()
			var ws time.Time
			for i, item := range batch {
				ts, v, err := start(item)
				if err != nil {
					return err
				}
				if i == 0 {
					ws = ts
				}
				state = aggregate(v, state)
			}
			return ctx.Push(Window[Out]{Start: ws, Value: finalize(state)})
		},
	}
}

func as[T any](item any) (T, error) {
	v, ok := item.(T)
	if !ok {
		return v, fmt.Errorf("%w: want %T, got %T", consecution.ErrItemType, *new(T), item)
	}
	return v, nil
}

func asAll[T any](items []any) ([]T, error) {
	out := make([]T, len(items))
	for i, item := range items {
		v, err := as[T](item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
