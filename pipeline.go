package consecution

import (
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"runtime"
	"strings"

	"github.com/birdayz/consecution/dag"
	"github.com/birdayz/consecution/viz"
	"github.com/go-logr/logr"
	"go.uber.org/multierr"
)

// phase is where a pipeline is in its lifecycle.
type phase int

const (
	phaseIdle phase = iota
	phaseBeginning
	phaseRunning
)

// Pipeline drives items through a wired graph of nodes, one item at a time,
// on the calling goroutine.
//
// IMPORTANT: Pipeline is NOT safe for concurrent use.
type Pipeline struct {
	b       *Builder
	top     *Node
	global  *GlobalState
	nodes   map[string]*Node
	phase   phase
	repr    string

	log       logr.Logger
	logWriter io.Writer
	nodeLog   *nodeLog
	hooks     any
	plotter   Plotter
}

// New creates a pipeline around the graph containing node. The graph must
// have exactly one root.
func New(node *Node, opts ...Option) (*Pipeline, error) {
	if node == nil || node.b == nil {
		return nil, ErrNotANode
	}
	top, err := node.TopNode()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		b:         node.b,
		top:       top,
		log:       logr.Discard(),
		logWriter: os.Stdout,
		plotter:   viz.NewGraphviz(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.global == nil {
		p.global = NewGlobalState(nil)
	}
	p.nodeLog = newNodeLog(p.logWriter)

	if err := p.Initialize(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew(node *Node, opts ...Option) *Pipeline {
	p, err := New(node, opts...)
	must(err)
	return p
}

// Initialize adopts every node of the graph, rebuilds the name lookup and
// the textual representation. It is idempotent; Begin calls it again so
// that nodes wired after New are picked up.
func (p *Pipeline) Initialize() error {
	return p.initialize(false)
}

func (p *Pipeline) initialize(withPush bool) error {
	members := p.top.AllNodes()
	p.nodes = make(map[string]*Node, len(members))

	needsHeader := false
	for _, n := range members {
		n.p = p
		p.nodes[n.name] = n
		n.resolveDispatch()
		if n.logIn || n.logOut {
			needsHeader = true
		}
	}
	if withPush {
		for _, n := range members {
			n.resolvePush()
		}
	}

	if err := p.buildRepr(); err != nil {
		return err
	}
	if needsHeader {
		return p.nodeLog.header()
	}
	return nil
}

func (p *Pipeline) buildRepr() error {
	var names, downs []string
	width := 0
	err := p.topDown(func(n *Node) error {
		names = append(names, n.name)
		downs = append(downs, downstreamNames(n.Downstream()))
		if len(n.name) > width {
			width = len(n.name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	var sb strings.Builder
	for i, name := range names {
		fmt.Fprintf(&sb, "%*s | %s\n", width, name, downs[i])
	}
	p.repr = sb.String()
	return nil
}

func downstreamNames(nodes []*Node) string {
	if len(nodes) == 1 {
		return nodes[0].name
	}
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

var rule = strings.Repeat("-", 68)

// String lists every node with its downstream nodes in top-down order.
func (p *Pipeline) String() string {
	return "\nPipeline\n" + rule + "\n" + p.repr + rule + "\n"
}

func (p *Pipeline) topDown(visit func(*Node) error) error {
	return p.b.graph.TopDown(p.top.id, func(id dag.NodeID) error {
		return visit(p.b.node(id))
	})
}

// Begin runs the begin hook, then begins every node top-down, then resolves
// how each node pushes. Nodes may not push while beginning.
func (p *Pipeline) Begin(ctx context.Context) (err error) {
	p.phase = phaseBeginning
	defer func() {
		if err != nil {
			p.phase = phaseIdle
		}
	}()

	if h, ok := p.hooks.(PipelineBeginner); ok {
		if err := h.Begin(ctx, p); err != nil {
			return err
		}
	}

	if err := p.initialize(false); err != nil {
		return err
	}
	for _, n := range p.nodes {
		n.unresolvePush()
	}
	if err := p.topDown(func(n *Node) error { return n.begin(ctx) }); err != nil {
		return err
	}
	if err := p.initialize(true); err != nil {
		return err
	}

	p.phase = phaseRunning
	p.log.V(1).Info("Pipeline began", "top", p.top.name, "nodes", len(p.nodes))
	return nil
}

// End ends every node top-down, then runs the end hook and returns its
// result.
func (p *Pipeline) End(ctx context.Context) (any, error) {
	if err := p.topDown(func(n *Node) error { return n.end(ctx) }); err != nil {
		return nil, err
	}
	p.phase = phaseIdle
	p.log.V(1).Info("Pipeline ended", "top", p.top.name)

	if h, ok := p.hooks.(PipelineEnder); ok {
		return h.End(ctx, p)
	}
	return nil, nil
}

// Reset resets every node top-down, then runs the reset hook. Every node is
// reset even if some fail; all failures are returned together.
func (p *Pipeline) Reset(ctx context.Context) error {
	var errs error
	_ = p.topDown(func(n *Node) error {
		errs = multierr.Append(errs, n.reset(ctx))
		return nil
	})

	if h, ok := p.hooks.(PipelineResetter); ok {
		errs = multierr.Append(errs, h.Reset(ctx, p))
	}
	p.log.V(1).Info("Pipeline reset", "top", p.top.name, "errors", len(multierr.Errors(errs)))
	return errs
}

// Push sends a single item into the top node, beginning the pipeline first
// if it is not running. Call End when done.
func (p *Pipeline) Push(ctx context.Context, item any) error {
	if p.phase == phaseBeginning {
		return p.pushInBegin()
	}
	if p.phase != phaseRunning {
		if err := p.Begin(ctx); err != nil {
			return err
		}
	}
	return p.top.dispatch(ctx, item)
}

// Consume begins the pipeline, sends every item into the top node in order
// and ends the pipeline, returning the result of End. It stops early when
// ctx is done or an item fails; the pipeline is then left running.
func (p *Pipeline) Consume(ctx context.Context, items iter.Seq[any]) (any, error) {
	if p.phase == phaseBeginning {
		return nil, p.pushInBegin()
	}
	if err := p.Begin(ctx); err != nil {
		return nil, err
	}
	for item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := p.top.dispatch(ctx, item); err != nil {
			return nil, err
		}
	}
	return p.End(ctx)
}

// Node returns the node called name.
func (p *Pipeline) Node(name string) (*Node, error) {
	n, ok := p.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: no node named %q", ErrNodeNotFound, name)
	}
	return n, nil
}

// Replace swaps the node called name for replacement, which must carry the
// same name, belong to the same builder and have no edges yet. Every edge of
// the old node moves to the replacement, routers included.
func (p *Pipeline) Replace(name string, replacement *Node) error {
	if replacement == nil || replacement.b != p.b {
		return fmt.Errorf("%w: %v", ErrNotANode, replacement)
	}
	if replacement.name != name {
		return fmt.Errorf("%w: replacing %q with %q", ErrNameMismatch, name, replacement.name)
	}
	old, err := p.Node(name)
	if err != nil {
		return err
	}
	if old == replacement {
		return nil
	}

	if err := p.b.graph.Replace(old.id, replacement.id); err != nil {
		return err
	}
	for _, u := range replacement.Upstream() {
		if u.kind == kindRouter {
			u.router.endpoints[name] = replacement
		}
	}
	if p.top == old {
		p.top = replacement
	}
	old.p = nil
	old.unresolvePush()

	p.log.V(1).Info("Replaced node", "node", name)
	return p.initialize(p.phase == phaseRunning)
}

// Top returns the root node.
func (p *Pipeline) Top() *Node {
	return p.top
}

// Nodes returns every node in top-down order.
func (p *Pipeline) Nodes() []*Node {
	var out []*Node
	_ = p.topDown(func(n *Node) error {
		out = append(out, n)
		return nil
	})
	return out
}

func (p *Pipeline) GlobalState() *GlobalState {
	return p.global
}

// Running reports whether the pipeline has begun and not yet ended.
func (p *Pipeline) Running() bool {
	return p.phase == phaseRunning
}

// pushInBegin reports the caller of Push or Consume.
func (p *Pipeline) pushInBegin() error {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Errorf("%w: pipeline %s fed an item from begin at %s:%d", ErrPushInBegin, p.top.name, file, line)
}

// Items turns a list of values into a sequence for Consume.
func Items[T any](items ...T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// Seq adapts a typed sequence for Consume.
func Seq[T any](seq iter.Seq[T]) iter.Seq[any] {
	return func(yield func(any) bool) {
		for item := range seq {
			if !yield(item) {
				return
			}
		}
	}
}
