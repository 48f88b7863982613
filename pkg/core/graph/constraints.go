package graph

import "github.com/nodeflow/nodeflow/pkg/geom"

// MinSeparation is the minimum pairwise distance between node centers.
// Two nodes exactly MinSeparation apart do not collide; the comparison
// is strict.
const MinSeparation = 120.0

// HasPath reports whether target is reachable from start following edge
// direction. The traversal is an iterative queue-based BFS so pathological
// inputs cannot grow the call stack.
func HasPath(g *Graph, start, target string) bool {
	if start == target {
		return true
	}
	if _, ok := g.nodes[start]; !ok {
		return false
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range g.outgoing[id] {
			if child == target {
				return true
			}
			if !visited[child] {
				visited[child] = true
				queue = append(queue, child)
			}
		}
	}
	return false
}

// WouldCreateCycle reports whether adding an edge from→to would close a
// cycle: it would iff the reverse path to→from already exists.
func WouldCreateCycle(g *Graph, from, to string) bool {
	return HasPath(g, to, from)
}

// HasCollision reports whether candidate is within MinSeparation of any
// node other than excludeID. Pass "" to test against every node.
func HasCollision(g *Graph, candidate geom.Point, excludeID string) bool {
	for _, n := range g.nodes {
		if n.ID == excludeID {
			continue
		}
		if n.Position.Dist(candidate) < MinSeparation {
			return true
		}
	}
	return false
}

// IsDownstream reports whether b sits strictly to the right of a, the
// directional-flow constraint used by randomize-mode edge generation.
func IsDownstream(a, b *Node) bool {
	return b.Position.X > a.Position.X
}
