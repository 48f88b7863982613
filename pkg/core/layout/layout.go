// Package layout computes node placements for the choreography engine.
//
// Two interchangeable strategies are provided:
//
//   - Tree: hierarchical leveling by BFS distance from the root set, with
//     each level centered horizontally. Deterministic - the same graph
//     always produces the same positions.
//   - Scatter: randomized placement honoring the minimum pairwise
//     separation, falling back to a fixed grid scan (and finally a fixed
//     default point) so the function always terminates with some point.
//
// Both strategies are pure with respect to the graph: they return
// positions, they never write them back.
package layout

import (
	"github.com/nodeflow/nodeflow/pkg/geom"
)

// Strategy selects a placement algorithm.
type Strategy int

const (
	// StrategyTree is the hierarchical level-based layout.
	StrategyTree Strategy = iota
	// StrategyScatter is randomized collision-avoiding placement.
	StrategyScatter
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyTree:
		return "tree"
	case StrategyScatter:
		return "scatter"
	default:
		return "unknown"
	}
}

// Options bundles the geometric constants shared by both strategies.
type Options struct {
	CanvasWidth  float64 // Frame width
	CanvasHeight float64 // Frame height
	NodeWidth    float64 // Visual node width used for row centering
	NodeSpacing  float64 // Horizontal gap between nodes in a level
	EastShift    float64 // Optional bias pushing centered rows east

	LevelBase    float64 // Y of the first level
	LevelSpacing float64 // Vertical distance between levels
	MaxLevels    int     // BFS depth cap

	Margin          float64    // Scatter sampling inset from canvas edges
	ScatterAttempts int        // Rejection-sampling budget before grid fallback
	GridRows        int        // Grid fallback rows
	GridCols        int        // Grid fallback columns
	GridOrigin      geom.Point // Top-left grid cell center
	GridStep        geom.Point // Cell pitch in x and y
	DefaultPoint    geom.Point // Returned when even the grid is exhausted
}

// DefaultOptions returns the placement constants for the standard
// 800×600 frame.
func DefaultOptions() Options {
	return Options{
		CanvasWidth:  800,
		CanvasHeight: 600,
		NodeWidth:    2 * geom.AnchorOffsetX,
		NodeSpacing:  60,
		LevelBase:    120,
		LevelSpacing: 130,
		MaxLevels:    5,

		Margin:          100,
		ScatterAttempts: 20,
		GridRows:        4,
		GridCols:        3,
		GridOrigin:      geom.Point{X: 160, Y: 120},
		GridStep:        geom.Point{X: 240, Y: 130},
		DefaultPoint:    geom.Point{X: 400, Y: 300},
	}
}
