// Package dag provides the arena-backed directed acyclic graph underneath
// consecution pipelines.
//
// # Overview
//
// A Graph[T] owns every vertex ever created through it. Vertices are
// addressed by NodeID, a plain integer index into the arena, and edges are
// stored as ordered NodeID lists on both ends. Nothing in the package holds
// pointers between vertices, which keeps upstream and downstream links free
// of reference cycles and makes identity comparisons trivial.
//
// An arena may contain any number of disconnected components. All queries
// start from a vertex and are scoped to its component:
//
//   - **Members**: every vertex reachable over edges in either direction
//   - **Roots** / **Top**: vertices without upstream edges; Top requires exactly one
//   - **Terminals**: vertices downstream of the start that have no downstream edges
//   - **Initials**: vertices upstream of the start that have no upstream edges
//
// # Validation
//
// AddEdges validates a whole batch before committing any edge, so a failed
// wiring attempt never leaves a half-connected graph behind. Checks run in a
// fixed order:
//
//  1. Joining the components must not bring two distinct vertices with the
//     same name together (ErrDuplicateName).
//  2. An edge may not point at its own source (ErrSelfLoop).
//  3. Nothing upstream of the source may be downstream of the target
//     (ErrCycleDetected, reported with the offending path).
//  4. The edge must not exist already (ErrDuplicateEdge).
//
// Every error wraps ErrWiring.
//
// # Traversal
//
// Walk visits vertices with a single deque: neighbours are appended to the
// back, DepthFirst pops from the back and BreadthFirst pops from the front.
// Visiting order follows wiring order and is deterministic.
//
// TopDown is the join-aware traversal used for lifecycle calls. A vertex
// with N > 1 upstream vertices is visited on the N-th arrival only:
//
//	g := dag.NewGraph[string]()
//	a, _ := g.Add("a", "")
//	b, _ := g.Add("b", "")
//	c, _ := g.Add("c", "")
//	d, _ := g.Add("d", "")
//	_ = g.AddEdges(dag.Edge{From: a, To: b}, dag.Edge{From: a, To: c},
//	    dag.Edge{From: b, To: d}, dag.Edge{From: c, To: d})
//
//	_ = g.TopDown(a, func(id dag.NodeID) error {
//	    fmt.Println(g.Name(id)) // a, b, c, d
//	    return nil
//	})
//
// # Thread Safety
//
// Graph is NOT safe for concurrent use.
package dag
