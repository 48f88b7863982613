// Package mutate decides new graph topologies.
//
// A Planner takes the current graph and a target node count and produces
// a fresh graph snapshot plus the structural delta (nodes and edges added
// and removed) that the choreographer needs to drive transitions. Planning
// cannot fail: every randomness-driven shortfall (no valid edge target, no
// free label, no collision-free spot) degrades to a smaller or differently
// placed result, never to an error.
package mutate

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/nodeflow/nodeflow/pkg/core/graph"
	"github.com/nodeflow/nodeflow/pkg/core/layout"
)

// Policy is the constraint set and layout strategy for one operating mode.
type Policy struct {
	TargetMin int // Inclusive lower bound for random target node counts
	TargetMax int // Inclusive upper bound

	MaxNewEdges int // K: at most min(K, N-1) new edges per plan

	EnforceDAG        bool // Reject edges that would close a cycle
	MaxInDegree       int  // Reject targets at this in-degree; 0 = unlimited
	RequireDownstream bool // Targets must sit strictly right of the source

	// UndirectedDuplicates treats A→B and B→A as the same edge for the
	// duplicate check. Randomize mode does; streaming mode checks the
	// exact direction only.
	UndirectedDuplicates bool

	Strategy layout.Strategy
}

// RandomizePolicy returns the lightly constrained manual mode: scattered
// placement, duplicate check in both directions, left-to-right flow.
func RandomizePolicy() Policy {
	return Policy{
		TargetMin:            2,
		TargetMax:            8,
		MaxNewEdges:          4,
		RequireDownstream:    true,
		UndirectedDuplicates: true,
		Strategy:             layout.StrategyScatter,
	}
}

// StreamingPolicy returns the continuously running mode: tree layout,
// acyclic edge set, at most two incoming edges per node.
func StreamingPolicy() Policy {
	return Policy{
		TargetMin:   2,
		TargetMax:   6,
		MaxNewEdges: 3,
		EnforceDAG:  true,
		MaxInDegree: 2,
		Strategy:    layout.StrategyTree,
	}
}

// Delta lists the structural changes between the old and new graph.
type Delta struct {
	NodesAdded   []string
	NodesRemoved []string
	EdgesAdded   []graph.Edge
	EdgesRemoved []graph.Edge
}

// Planner produces new topologies under a Policy. Randomness comes from
// an injected source so plans are reproducible in tests.
type Planner struct {
	policy  Policy
	layout  layout.Options
	rng     *rand.Rand
	freshID func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLayoutOptions overrides the placement constants.
func WithLayoutOptions(opts layout.Options) Option {
	return func(p *Planner) { p.layout = opts }
}

// WithRand sets the random source. Defaults to a PCG seeded with 42.
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) { p.rng = rng }
}

// WithEdgeIDs overrides edge ID generation. Defaults to UUIDs.
func WithEdgeIDs(fn func() string) Option {
	return func(p *Planner) { p.freshID = fn }
}

// NewPlanner creates a Planner for the given policy.
func NewPlanner(policy Policy, opts ...Option) *Planner {
	p := &Planner{
		policy:  policy,
		layout:  layout.DefaultOptions(),
		rng:     rand.New(rand.NewPCG(42, 0)),
		freshID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan picks a random target count within the policy range and delegates
// to PlanTarget.
func (p *Planner) Plan(current *graph.Graph) (*graph.Graph, Delta) {
	span := p.policy.TargetMax - p.policy.TargetMin + 1
	target := p.policy.TargetMin + p.rng.IntN(span)
	return p.PlanTarget(current, target)
}

// PlanTarget builds the next topology for an explicit target node count.
//
// Survivors are the stable prefix of the current node order: the first
// min(target, current) nodes keep their identity and live position. Extra
// nodes get fresh labels and start invisible. Edges are pruned to the
// surviving set, then 1..min(MaxNewEdges, target-1) new connections are
// sampled under the policy constraints; a sampled source with no valid
// target is skipped, never retried.
func (p *Planner) PlanTarget(current *graph.Graph, target int) (*graph.Graph, Delta) {
	if target < 0 {
		target = 0
	}

	var delta Delta
	next := graph.New()

	// Stable-prefix survivor policy.
	ids := current.NodeIDs()
	keep := min(target, len(ids))
	for _, id := range ids[:keep] {
		n, _ := current.Node(id)
		kept := *n
		kept.New = false
		next.AddNode(kept)
	}
	for _, id := range ids[keep:] {
		delta.NodesRemoved = append(delta.NodesRemoved, id)
	}

	// Synthesize the shortfall with fresh labels.
	for next.NodeCount() < target {
		id := AvailableID(next)
		next.AddNode(graph.Node{ID: id, Opacity: 0, New: true})
		delta.NodesAdded = append(delta.NodesAdded, id)
	}

	// Scattered placement runs before edge generation so the downstream
	// constraint sees final positions. Tree placement needs the edges and
	// runs after.
	if p.policy.Strategy == layout.StrategyScatter {
		for id, pos := range layout.Scatter(next, p.rng, p.layout) {
			if n, ok := next.Node(id); ok {
				n.Position = pos
			}
		}
	}

	// Prune edges whose endpoints did not survive.
	for _, e := range current.Edges() {
		if next.AddEdge(e) != nil {
			delta.EdgesRemoved = append(delta.EdgesRemoved, e)
		}
	}

	delta.EdgesAdded = p.generateEdges(next, target)

	if p.policy.Strategy == layout.StrategyTree {
		positions, depths := layout.Tree(next, p.layout)
		for _, n := range next.Nodes() {
			n.Position = positions[n.ID]
			n.Level = depths[n.ID]
		}
	}

	return next, delta
}

// generateEdges samples up to min(MaxNewEdges, target-1) new connections.
// With fewer than two nodes edge generation is skipped entirely.
func (p *Planner) generateEdges(g *graph.Graph, target int) []graph.Edge {
	limit := min(p.policy.MaxNewEdges, target-1)
	if limit < 1 || g.NodeCount() < 2 {
		return nil
	}

	var added []graph.Edge
	ids := g.NodeIDs()
	want := 1 + p.rng.IntN(limit)

	for range want {
		src := ids[p.rng.IntN(len(ids))]
		candidates := p.validTargets(g, src)
		if len(candidates) == 0 {
			continue // under-generation is fine
		}
		dst := candidates[p.rng.IntN(len(candidates))]

		e := graph.Edge{ID: p.freshID(), From: src, To: dst}
		if g.AddEdge(e) == nil {
			added = append(added, e)
		}
	}
	return added
}

func (p *Planner) validTargets(g *graph.Graph, src string) []string {
	srcNode, _ := g.Node(src)
	var out []string
	for _, id := range g.NodeIDs() {
		if id == src {
			continue
		}
		if g.HasEdge(src, id, p.policy.UndirectedDuplicates) {
			continue
		}
		if p.policy.MaxInDegree > 0 && g.InDegree(id) >= p.policy.MaxInDegree {
			continue
		}
		if p.policy.EnforceDAG && graph.WouldCreateCycle(g, src, id) {
			continue
		}
		if p.policy.RequireDownstream {
			dst, _ := g.Node(id)
			if !graph.IsDownstream(srcNode, dst) {
				continue
			}
		}
		out = append(out, id)
	}
	return out
}

// AvailableID returns a label not present in the graph. Single letters
// A-Z are scanned first; when all 26 are taken the label space widens to
// two-letter combinations (AA, AB, ...) instead of reusing a letter.
func AvailableID(g *graph.Graph) string {
	for c := 'A'; c <= 'Z'; c++ {
		id := string(c)
		if _, ok := g.Node(id); !ok {
			return id
		}
	}
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			id := string(a) + string(b)
			if _, ok := g.Node(id); !ok {
				return id
			}
		}
	}
	// 702 labels exhausted: far beyond the designed 2-8 node scale.
	return "ZZ"
}
