package dag

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

// testGraph is a graph of named vertices whose payload is the name itself.
type testGraph struct {
	*Graph[string]
	ids map[string]NodeID
}

func newTestGraph(t *testing.T, names ...string) *testGraph {
	t.Helper()
	tg := &testGraph{Graph: NewGraph[string](), ids: map[string]NodeID{}}
	for _, name := range names {
		tg.add(t, name)
	}
	return tg
}

func (tg *testGraph) add(t *testing.T, name string) NodeID {
	t.Helper()
	id, err := tg.Add(name, name)
	assert.NoError(t, err)
	tg.ids[name] = id
	return id
}

// wire adds edges written as "a>b".
func (tg *testGraph) wire(t *testing.T, edges ...string) {
	t.Helper()
	for _, e := range edges {
		assert.NoError(t, tg.AddEdge(tg.edge(e)))
	}
}

func (tg *testGraph) edge(e string) (NodeID, NodeID) {
	from, to, _ := strings.Cut(e, ">")
	return tg.ids[from], tg.ids[to]
}

func (tg *testGraph) names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tg.Name(id)
	}
	return out
}

// fanIn builds a | [b | c, d | e | f] | g.
func fanIn(t *testing.T) *testGraph {
	t.Helper()
	tg := newTestGraph(t, "a", "b", "c", "d", "e", "f", "g")
	tg.wire(t, "a>b", "a>d", "b>c", "d>e", "e>f", "c>g", "f>g")
	return tg
}
