package layout

// Hierarchical tree layout: level assignment by BFS from the root set,
// then centered horizontal placement per level.

import (
	"github.com/nodeflow/nodeflow/pkg/core/graph"
	"github.com/nodeflow/nodeflow/pkg/geom"
)

// Level is one horizontal row of the tree layout.
type Level struct {
	Nodes []string // Node IDs in placement order
	Y     float64  // Vertical center of the row
}

// BuildLevels assigns every node to a level.
//
// The root set is the zero in-degree nodes; if there are none (the graph
// is non-empty but fully cyclic or edge-free in a degenerate way), the
// first min(2, n) nodes act as roots so at least one level always exists.
// BFS follows outgoing edges; a node belongs to the first level that
// reaches it. Traversal is capped at opts.MaxLevels. Nodes never reached
// are appended as one final extra level.
//
// The result is a pure function of the graph: calling BuildLevels twice
// without mutation in between yields identical levels.
func BuildLevels(g *graph.Graph, opts Options) []Level {
	if g.NodeCount() == 0 {
		return nil
	}

	roots := g.Sources()
	if len(roots) == 0 {
		all := g.Nodes()
		n := min(2, len(all))
		roots = all[:n]
	}

	assigned := make(map[string]bool, g.NodeCount())
	var levels []Level

	current := make([]string, 0, len(roots))
	for _, r := range roots {
		assigned[r.ID] = true
		current = append(current, r.ID)
	}

	for depth := 0; len(current) > 0 && depth < opts.MaxLevels; depth++ {
		levels = append(levels, Level{
			Nodes: current,
			Y:     opts.LevelBase + float64(depth)*opts.LevelSpacing,
		})

		var next []string
		for _, id := range current {
			for _, child := range g.Children(id) {
				if !assigned[child] {
					assigned[child] = true
					next = append(next, child)
				}
			}
		}
		current = next
	}

	// Disconnected or depth-capped leftovers land in one extra level.
	var leftovers []string
	for _, id := range g.NodeIDs() {
		if !assigned[id] {
			leftovers = append(leftovers, id)
		}
	}
	if len(leftovers) > 0 {
		levels = append(levels, Level{
			Nodes: leftovers,
			Y:     opts.LevelBase + float64(len(levels))*opts.LevelSpacing,
		})
	}

	return levels
}

// PlaceLevel centers a level's nodes horizontally on the canvas and
// returns their positions. Deterministic and order-preserving: the same
// level membership and order always yields identical positions.
func PlaceLevel(lv Level, opts Options) map[string]geom.Point {
	n := len(lv.Nodes)
	if n == 0 {
		return nil
	}

	total := float64(n)*opts.NodeWidth + float64(n-1)*opts.NodeSpacing
	startX := (opts.CanvasWidth-total)/2 + opts.EastShift + opts.NodeWidth/2

	positions := make(map[string]geom.Point, n)
	for i, id := range lv.Nodes {
		positions[id] = geom.Point{
			X: startX + float64(i)*(opts.NodeWidth+opts.NodeSpacing),
			Y: lv.Y,
		}
	}
	return positions
}

// Tree runs the full hierarchical layout and returns the position and
// level index for every node.
func Tree(g *graph.Graph, opts Options) (map[string]geom.Point, map[string]int) {
	levels := BuildLevels(g, opts)

	positions := make(map[string]geom.Point, g.NodeCount())
	depths := make(map[string]int, g.NodeCount())
	for i, lv := range levels {
		for id, p := range PlaceLevel(lv, opts) {
			positions[id] = p
			depths[id] = i
		}
	}
	return positions, depths
}
