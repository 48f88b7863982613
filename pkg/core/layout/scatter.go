package layout

// Scattered placement: rejection sampling against the minimum-separation
// test, with a deterministic grid scan as fallback. Always returns some
// point - strict collision-freedom is traded for guaranteed termination.

import (
	"math/rand/v2"

	"github.com/nodeflow/nodeflow/pkg/core/graph"
	"github.com/nodeflow/nodeflow/pkg/geom"
)

// RandomPosition samples a position inside the canvas margins that does
// not collide with any existing node (excludeID excepted). After
// opts.ScatterAttempts rejected samples it falls back to GridPosition.
func RandomPosition(g *graph.Graph, rng *rand.Rand, opts Options, excludeID string) geom.Point {
	w := opts.CanvasWidth - 2*opts.Margin
	h := opts.CanvasHeight - 2*opts.Margin

	for range opts.ScatterAttempts {
		p := geom.Point{
			X: opts.Margin + rng.Float64()*w,
			Y: opts.Margin + rng.Float64()*h,
		}
		if !graph.HasCollision(g, p, excludeID) {
			return p
		}
	}
	return GridPosition(g, opts, excludeID)
}

// GridPosition scans a fixed row/column grid and returns the first
// collision-free cell center, or opts.DefaultPoint when every cell is
// occupied. The scan order is row-major, so the result is deterministic
// for a given graph.
func GridPosition(g *graph.Graph, opts Options, excludeID string) geom.Point {
	for row := range opts.GridRows {
		for col := range opts.GridCols {
			p := geom.Point{
				X: opts.GridOrigin.X + float64(col)*opts.GridStep.X,
				Y: opts.GridOrigin.Y + float64(row)*opts.GridStep.Y,
			}
			if !graph.HasCollision(g, p, excludeID) {
				return p
			}
		}
	}
	return opts.DefaultPoint
}

// Scatter assigns every node a scattered position, in insertion order.
// Earlier placements constrain later ones through the collision test, so
// a temporary working copy of the graph carries the accepted positions.
func Scatter(g *graph.Graph, rng *rand.Rand, opts Options) map[string]geom.Point {
	work := g.Clone()
	positions := make(map[string]geom.Point, g.NodeCount())

	for _, id := range work.NodeIDs() {
		p := RandomPosition(work, rng, opts, id)
		positions[id] = p
		if n, ok := work.Node(id); ok {
			n.Position = p
		}
	}
	return positions
}
