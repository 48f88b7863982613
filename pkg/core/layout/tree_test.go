package layout

import (
	"reflect"
	"testing"

	"github.com/nodeflow/nodeflow/pkg/core/graph"
)

func build(t *testing.T, nodes []string, edges [][2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range nodes {
		if err := g.AddNode(graph.Node{ID: id, Opacity: 1}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(graph.Edge{ID: string(rune('a' + i)), From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func levelNodes(levels []Level) [][]string {
	out := make([][]string, len(levels))
	for i, lv := range levels {
		out[i] = lv.Nodes
	}
	return out
}

func TestBuildLevels(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  [][]string
	}{
		{
			name:  "Empty",
			nodes: nil,
			want:  nil,
		},
		{
			name:  "Chain",
			nodes: []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}},
			want:  [][]string{{"A"}, {"B"}, {"C"}},
		},
		{
			name:  "Diamond",
			nodes: []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  [][]string{{"A"}, {"B", "C"}, {"D"}},
		},
		{
			name:  "FirstDiscoveryWins",
			nodes: []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}},
			// C is reached from A at depth 1 first; the deeper B→C path
			// does not move it.
			want: [][]string{{"A"}, {"B", "C"}},
		},
		{
			name:  "DisconnectedExtraLevel",
			nodes: []string{"A", "B", "X"},
			edges: [][2]string{{"A", "B"}},
			// X has in-degree 0, so it is a root alongside A.
			want: [][]string{{"A", "X"}, {"B"}},
		},
		{
			name:  "NoRootsFallback",
			nodes: []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}},
			// Fully cyclic: first min(2,n) nodes become roots.
			want: [][]string{{"A", "B"}, {"C"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.nodes, tt.edges)
			got := levelNodes(BuildLevels(g, opts))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildLevels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildLevelsDepthCap(t *testing.T) {
	// A chain longer than MaxLevels: the tail collapses into one extra
	// level instead of growing unbounded.
	nodes := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var edges [][2]string
	for i := 0; i+1 < len(nodes); i++ {
		edges = append(edges, [2]string{nodes[i], nodes[i+1]})
	}
	g := build(t, nodes, edges)

	levels := BuildLevels(g, DefaultOptions())
	if len(levels) != 6 { // 5 BFS levels + 1 leftover level
		t.Fatalf("len(levels) = %d, want 6", len(levels))
	}
	if !reflect.DeepEqual(levels[5].Nodes, []string{"F", "G", "H"}) {
		t.Errorf("leftover level = %v, want [F G H]", levels[5].Nodes)
	}
}

func TestBuildLevelsVerticalSpacing(t *testing.T) {
	opts := DefaultOptions()
	g := build(t, []string{"A", "B"}, [][2]string{{"A", "B"}})

	levels := BuildLevels(g, opts)
	if levels[0].Y != opts.LevelBase {
		t.Errorf("level 0 Y = %v, want %v", levels[0].Y, opts.LevelBase)
	}
	if levels[1].Y != opts.LevelBase+opts.LevelSpacing {
		t.Errorf("level 1 Y = %v, want %v", levels[1].Y, opts.LevelBase+opts.LevelSpacing)
	}
}

func TestPlaceLevelCentering(t *testing.T) {
	opts := DefaultOptions()
	lv := Level{Nodes: []string{"A", "B", "C"}, Y: 120}

	pos := PlaceLevel(lv, opts)

	// The row must be symmetric about the canvas center.
	left := pos["A"].X
	right := pos["C"].X
	center := (left + right) / 2
	if want := opts.CanvasWidth/2 + opts.EastShift; center != want {
		t.Errorf("row center = %v, want %v", center, want)
	}

	// Pitch between neighbors is nodeWidth + spacing.
	pitch := opts.NodeWidth + opts.NodeSpacing
	if pos["B"].X-pos["A"].X != pitch || pos["C"].X-pos["B"].X != pitch {
		t.Errorf("uneven pitch: %v %v %v", pos["A"].X, pos["B"].X, pos["C"].X)
	}

	for id, p := range pos {
		if p.Y != 120 {
			t.Errorf("node %s Y = %v, want 120", id, p.Y)
		}
	}
}

func TestTreeIdempotent(t *testing.T) {
	g := build(t, []string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"A", "C"}, {"C", "D"}})
	opts := DefaultOptions()

	pos1, lvl1 := Tree(g, opts)
	pos2, lvl2 := Tree(g, opts)

	if !reflect.DeepEqual(pos1, pos2) {
		t.Errorf("Tree positions differ across identical calls:\n%v\n%v", pos1, pos2)
	}
	if !reflect.DeepEqual(lvl1, lvl2) {
		t.Errorf("Tree levels differ across identical calls:\n%v\n%v", lvl1, lvl2)
	}
}
