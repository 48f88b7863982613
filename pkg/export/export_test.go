package export

import (
	"strings"
	"testing"

	"github.com/nodeflow/nodeflow/pkg/core/graph"
	"github.com/nodeflow/nodeflow/pkg/geom"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddNode(graph.Node{ID: "A", Position: geom.Point{X: 100, Y: 120}, Opacity: 1})
	g.AddNode(graph.Node{ID: "B", Position: geom.Point{X: 400, Y: 250}, Opacity: 1, Level: 1, New: true})
	if err := g.AddEdge(graph.Edge{ID: "e1", From: "A", To: "B"}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`"A" [label="A"];`,
		`"B" [label="B", fillcolor=lightgrey];`,
		`"A" -> "B";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{Detailed: true})

	if !strings.Contains(dot, `level: 1`) {
		t.Errorf("detailed DOT missing level:\n%s", dot)
	}
	if !strings.Contains(dot, `(400, 250)`) {
		t.Errorf("detailed DOT missing position:\n%s", dot)
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(graph.New(), Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty graph DOT malformed:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 144.00 72.00" xmlns="http://www.w3.org/2000/svg">`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 144.00 72.00"`) {
		t.Errorf("viewBox not normalized:\n%s", out)
	}
	if !strings.Contains(out, `width="144" height="72"`) {
		t.Errorf("dimensions not rewritten from viewBox:\n%s", out)
	}

	plain := []byte("<svg>no viewbox</svg>")
	if got := string(normalizeViewBox(plain)); got != string(plain) {
		t.Errorf("svg without viewBox was modified: %s", got)
	}
}
