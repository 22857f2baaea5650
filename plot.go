package consecution

import (
	"context"

	"github.com/birdayz/consecution/viz"
)

// Plotter renders a flattened graph. *viz.Graphviz is the default.
type Plotter interface {
	Plot(ctx context.Context, nodes []viz.NodeAttrs, edges []viz.EdgeAttrs, fileName, kind string) error
}

var _ Plotter = (*viz.Graphviz)(nil)

// Plot renders the pipeline graph to fileName with the given kind, e.g.
// "png". Empty arguments default to "pipeline" and "png".
func (p *Pipeline) Plot(ctx context.Context, fileName, kind string) error {
	if fileName == "" {
		fileName = "pipeline"
	}
	if kind == "" {
		kind = "png"
	}
	nodes, edges := p.Graph()
	return p.plotter.Plot(ctx, nodes, edges, fileName, kind)
}

// Graph flattens the pipeline into node and edge attributes in top-down
// order. Router nodes are drawn as rectangles.
func (p *Pipeline) Graph() ([]viz.NodeAttrs, []viz.EdgeAttrs) {
	var (
		nodes []viz.NodeAttrs
		edges []viz.EdgeAttrs
	)
	for _, n := range p.Nodes() {
		attrs := viz.NodeAttrs{Name: n.name}
		if n.kind == kindRouter {
			attrs.Shape = "rectangle"
		}
		nodes = append(nodes, attrs)
		for _, d := range n.Downstream() {
			edges = append(edges, viz.EdgeAttrs{Src: n.name, Dst: d.name})
		}
	}
	return nodes, edges
}
