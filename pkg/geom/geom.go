// Package geom provides the 2D primitives used by the layout and
// transition engines: points, distance tests, and the fixed anchor
// offsets where edges visually attach to a node.
package geom

import "math"

// AnchorOffsetX is the horizontal half-offset from a node's center to its
// connection points. Output anchors sit on the right edge, input anchors
// on the left.
const AnchorOffsetX = 46.0

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp returns the point a fraction t of the way from p to q.
// t is not clamped.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// OutputAnchor returns the point where outgoing edges leave a node
// centered at c.
func OutputAnchor(c Point) Point { return Point{X: c.X + AnchorOffsetX, Y: c.Y} }

// InputAnchor returns the point where incoming edges enter a node
// centered at c.
func InputAnchor(c Point) Point { return Point{X: c.X - AnchorOffsetX, Y: c.Y} }
