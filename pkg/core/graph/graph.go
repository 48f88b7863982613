// Package graph defines the topology model for the choreography engine:
// labeled nodes with live positions, directed edges referenced by node ID,
// and the structural queries (reachability, degree, separation) that the
// layout and mutation stages build on.
//
// Edges hold node IDs rather than node pointers. The Graph aggregate owns
// the only id→node index, so removing a node can never leave a dangling
// pointer, only a prunable ID reference.
package graph

import (
	"errors"
	"slices"

	"github.com/nodeflow/nodeflow/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that doesn't exist and is not mid-collapse.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is
	// detected in a graph that is expected to be acyclic.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Node is a vertex of the choreographed graph.
//
// Position is the authoritative live placement; it changes only when a
// layout is applied. Opacity and NewlyAdded exist purely for visual
// emphasis and never influence topology decisions.
type Node struct {
	ID       string     // Unique label, also displayed (A, B, ..., AA, AB, ...)
	Position geom.Point // Live center position
	Opacity  float64    // 0..1, drives fade in/out
	Level    int        // Last-computed tree depth, advisory styling only
	New      bool       // True for one cycle after creation
}

// OutputAnchor returns the point where edges leave this node.
func (n Node) OutputAnchor() geom.Point { return geom.OutputAnchor(n.Position) }

// InputAnchor returns the point where edges enter this node.
func (n Node) InputAnchor() geom.Point { return geom.InputAnchor(n.Position) }

// Edge is a directed connection between two nodes, held by ID.
//
// An edge's visual endpoints live in the transition layer, not here: the
// record is a plain value describing connectivity only.
type Edge struct {
	ID   string // Stable for the edge's lifetime
	From string // Source node ID
	To   string // Target node ID
}

// Graph is the aggregate of nodes and edges. Node iteration order is
// insertion order; it affects rendering only, never semantics.
//
// The zero value is not usable - use New. Graph is not safe for
// concurrent use without external synchronization.
type Graph struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	outgoing map[string][]string // nodeID -> children IDs
	incoming map[string][]string // nodeID -> parent IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the
// ID is already in use.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[node.ID] = &node
	g.order = append(g.order, node.ID)
	return nil
}

// RemoveNode removes the node and every edge touching it.
// Removing an unknown ID is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(s string) bool { return s == id })
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.From == id || e.To == id })
	g.rebuildAdjacency()
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing. Structural constraints (acyclicity, degree limits) are the
// mutation planner's responsibility, not AddEdge's.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// RemoveEdge removes the edge with the given ID if it exists.
func (g *Graph) RemoveEdge(id string) {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if len(g.edges) != before {
		g.rebuildAdjacency()
	}
}

func (g *Graph) rebuildAdjacency() {
	g.outgoing = make(map[string][]string, len(g.nodes))
	g.incoming = make(map[string][]string, len(g.nodes))
	for _, e := range g.edges {
		g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
		g.incoming[e.To] = append(g.incoming[e.To], e.From)
	}
}

// Node returns the node with the given ID and true, or nil and false.
// The pointer refers to the actual node, so position/opacity updates
// through it affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns the node IDs in insertion order.
func (g *Graph) NodeIDs() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs this node has edges to. Read-only view.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs that have edges to this node. Read-only view.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// InDegree returns the number of incoming edges to the node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// HasEdge reports whether an edge from→to exists. When undirected is
// true the reverse direction also counts as a duplicate.
func (g *Graph) HasEdge(from, to string, undirected bool) bool {
	for _, e := range g.edges {
		if e.From == from && e.To == to {
			return true
		}
		if undirected && e.From == to && e.To == from {
			return true
		}
	}
	return false
}

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, id := range g.order {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, g.nodes[id])
		}
	}
	return sources
}

// Clone returns a deep copy of the graph. Node structs are copied, so
// mutating the clone never affects the original.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, id := range g.order {
		c.AddNode(*g.nodes[id])
	}
	for _, e := range g.edges {
		c.AddEdge(e)
	}
	return c
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that every edge references existing nodes and that the
// edge set is acyclic. Transient collapse-phase edges are excluded by
// passing their IDs in skipEdges.
func (g *Graph) Validate(skipEdges ...string) error {
	for _, e := range g.edges {
		if slices.Contains(skipEdges, e.ID) {
			continue
		}
		if _, ok := g.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := g.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return g.detectCycles()
}

// detectCycles runs an iterative colored depth-first search.
func (g *Graph) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))

	for _, start := range g.order {
		if color[start] != white {
			continue
		}
		// Stack frames carry the node and the next child index to visit.
		type frame struct {
			id   string
			next int
		}
		stack := []frame{{id: start}}
		color[start] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.outgoing[top.id]
			if top.next >= len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
