// Package viz renders pipeline graphs with Graphviz.
package viz

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// NodeAttrs describes one vertex. An empty Shape uses the Graphviz default.
type NodeAttrs struct {
	Name  string
	Shape string
}

// EdgeAttrs describes one directed edge.
type EdgeAttrs struct {
	Src string
	Dst string
}

// WriteDOT writes nodes and edges as a DOT digraph, in the order given.
func WriteDOT(w io.Writer, nodes []NodeAttrs, edges []EdgeAttrs) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph pipeline {")
	for _, n := range nodes {
		if n.Shape != "" {
			fmt.Fprintf(bw, "\t%s [shape=%s];\n", strconv.Quote(n.Name), strconv.Quote(n.Shape))
		} else {
			fmt.Fprintf(bw, "\t%s;\n", strconv.Quote(n.Name))
		}
	}
	for _, e := range edges {
		fmt.Fprintf(bw, "\t%s -> %s [dir=forward];\n", strconv.Quote(e.Src), strconv.Quote(e.Dst))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
