package viz

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

var (
	ErrUnsupportedKind  = errors.New("unsupported plot kind")
	ErrRendererNotFound = errors.New("graphviz renderer not found")
)

// Kinds lists the output formats Plot accepts. "dot" writes the DOT source
// without invoking Graphviz.
var Kinds = []string{"dot", "png", "pdf", "svg"}

// Graphviz renders graphs by piping DOT into the Graphviz dot binary.
type Graphviz struct {
	binary string
	log    logr.Logger
}

type Option func(*Graphviz)

// WithBinary sets the dot executable. Defaults to "dot" looked up in PATH.
var WithBinary = func(path string) Option {
	return func(g *Graphviz) {
		g.binary = path
	}
}

// WithLogr sets the logger for render diagnostics.
var WithLogr = func(log logr.Logger) Option {
	return func(g *Graphviz) {
		g.log = log
	}
}

func NewGraphviz(opts ...Option) *Graphviz {
	g := &Graphviz{
		binary: "dot",
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Plot writes the graph to "<fileName>.<kind>".
func (g *Graphviz) Plot(ctx context.Context, nodes []NodeAttrs, edges []EdgeAttrs, fileName, kind string) error {
	if !supported(kind) {
		return fmt.Errorf("%w: %q, must be one of %v", ErrUnsupportedKind, kind, Kinds)
	}
	out := fileName + "." + kind

	if kind == "dot" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := WriteDOT(f, nodes, edges); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	bin, err := exec.LookPath(g.binary)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRendererNotFound, err)
	}

	cmd := exec.CommandContext(ctx, bin, "-T"+kind, "-o", out)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", bin, err)
	}

	grp := errgroup.Group{}
	grp.Go(func() error {
		defer stdin.Close()
		return WriteDOT(stdin, nodes, edges)
	})
	grp.Go(cmd.Wait)
	if err := grp.Wait(); err != nil {
		return fmt.Errorf("failed to render %s: %w: %s", out, err, strings.TrimSpace(stderr.String()))
	}

	g.log.V(1).Info("Rendered graph", "file", out, "nodes", len(nodes), "edges", len(edges))
	return nil
}

func supported(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
