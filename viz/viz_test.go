package viz

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

var (
	testNodes = []NodeAttrs{{Name: "a"}, {Name: "a__route", Shape: "rectangle"}, {Name: "b"}}
	testEdges = []EdgeAttrs{{Src: "a", Dst: "a__route"}, {Src: "a__route", Dst: "b"}}
)

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, WriteDOT(&buf, testNodes, testEdges))

	expected := `digraph pipeline {
	"a";
	"a__route" [shape="rectangle"];
	"b";
	"a" -> "a__route" [dir=forward];
	"a__route" -> "b" [dir=forward];
}
`
	assert.Equal(t, expected, buf.String())
}

func TestPlot(t *testing.T) {
	t.Run("unsupported kind", func(t *testing.T) {
		err := NewGraphviz().Plot(context.Background(), testNodes, testEdges, filepath.Join(t.TempDir(), "p"), "gif")
		assert.True(t, errors.Is(err, ErrUnsupportedKind))
	})

	t.Run("dot kind writes source", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "pipeline")
		assert.NoError(t, NewGraphviz().Plot(context.Background(), testNodes, testEdges, base, "dot"))

		data, err := os.ReadFile(base + ".dot")
		assert.NoError(t, err)
		assert.Contains(t, string(data), `"a" -> "a__route"`)
	})

	t.Run("missing renderer", func(t *testing.T) {
		g := NewGraphviz(WithBinary(filepath.Join(t.TempDir(), "no-such-dot")))
		err := g.Plot(context.Background(), testNodes, testEdges, filepath.Join(t.TempDir(), "p"), "png")
		assert.True(t, errors.Is(err, ErrRendererNotFound))
	})
}
