package consecution

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strings"
	"testing"
)

// item records the chain of nodes it passed through.
type item struct {
	value  int
	parent *item
	source string
}

func (i *item) path() string {
	var sources []string
	for cur := i; cur != nil; cur = cur.parent {
		sources = append(sources, cur.source)
	}
	slices.Reverse(sources)
	return fmt.Sprint(i.value) + "|" + strings.Join(sources, "|")
}

func (i *item) String() string {
	return i.path()
}

// generate yields items 1 and 2 from a "generator" source.
func generate() iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := 1; v <= 2; v++ {
			if !yield(&item{value: v, source: "generator"}) {
				return
			}
		}
	}
}

// relay pushes a child of every item it receives.
func relay() Processor {
	return Typed(func(ctx Context, in *item) error {
		return ctx.Push(&item{value: in.value, parent: in, source: ctx.Name()})
	})
}

// scale is a relay that multiplies the value.
func scale(factor int) Processor {
	return Typed(func(ctx Context, in *item) error {
		return ctx.Push(&item{value: factor * in.value, parent: in, source: ctx.Name()})
	})
}

// collect appends every item to the global state slice under key.
func collect(key string) Processor {
	return ProcessorFunc(func(ctx Context, x any) error {
		Append(ctx.GlobalState(), key, x)
		return nil
	})
}

var evenOdd = RouteByName("even_odd", func(x any) (string, error) {
	return []string{"even", "odd"}[x.(*item).value%2], nil
})

// canonical wires a | b | [c, d] | [even, odd, even_odd] | g.
func canonical(t *testing.T, opts ...Option) (*Builder, *Pipeline, *bytes.Buffer) {
	t.Helper()
	bld := NewBuilder()
	nodes := map[string]*Node{}
	for _, name := range []string{"a", "b", "c", "d", "even", "odd", "g"} {
		nodes[name] = bld.MustAddNode(name, relay())
	}

	MustChain(
		nodes["a"],
		nodes["b"],
		[]any{nodes["c"], nodes["d"]},
		[]any{nodes["even"], nodes["odd"], evenOdd},
		nodes["g"],
	)

	var out bytes.Buffer
	opts = append([]Option{
		WithGlobalState(NewGlobalState(map[string]any{"final_items": []any{}})),
		WithLogWriter(&out),
	}, opts...)
	return bld, MustNew(nodes["a"], opts...), &out
}

func mustNode(t *testing.T, p *Pipeline, name string) *Node {
	t.Helper()
	n, err := p.Node(name)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
