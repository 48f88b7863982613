// Package choreo sequences graph topology changes into legible visual
// transitions.
//
// The Choreographer runs a three-phase timed cycle - retract all edges,
// swap in the mutated topology, extend edges to their new anchors - so
// that an edge endpoint is never drawn at a stale coordinate. Phases are
// driven by an injectable Clock and are suspension points: TriggerUpdate
// returns immediately and the phase bodies run from timer callbacks,
// serialized by the choreographer's mutex.
//
// A TriggerUpdate arriving while a cycle is in flight is queued and runs
// once the cycle settles; overlapping cycles can therefore never
// interleave their callbacks.
package choreo

import (
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nodeflow/nodeflow/pkg/core/graph"
	"github.com/nodeflow/nodeflow/pkg/core/mutate"
	"github.com/nodeflow/nodeflow/pkg/core/transition"
	"github.com/nodeflow/nodeflow/pkg/geom"
	"github.com/nodeflow/nodeflow/pkg/observability"
)

// Phase is the choreographer's top-level state.
type Phase int

const (
	// PhaseIdle: no cycle in flight, edges track live anchors.
	PhaseIdle Phase = iota
	// PhaseRetracting: phase 1, edges pulling back into their sources.
	PhaseRetracting
	// PhaseMutating: phase 2, the topology swap window.
	PhaseMutating
	// PhaseExtending: phase 3, edges growing out to new anchors.
	PhaseExtending
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRetracting:
		return "retracting"
	case PhaseMutating:
		return "mutating"
	case PhaseExtending:
		return "extending"
	default:
		return "unknown"
	}
}

// collapsingEdge is a transient edge kept visible while it folds away.
type collapsingEdge struct {
	edge graph.Edge
	ctrl *transition.Controller
}

// Choreographer owns the live graph and drives its transitions.
// All methods are safe for concurrent use; internally every phase
// callback runs under one mutex, giving the single logical execution
// context the design assumes.
type Choreographer struct {
	mu sync.Mutex

	mode     Mode
	clock    Clock
	rng      *rand.Rand
	logger   *log.Logger
	animator transition.Animator
	planner  *mutate.Planner

	g          *graph.Graph
	ctrls      map[string]*transition.Controller
	collapsing map[string]*collapsingEdge

	phase      Phase
	pending    bool
	cycleStart time.Time

	streaming   bool
	streamTimer Timer
}

// Option configures a Choreographer.
type Option func(*Choreographer)

// WithClock substitutes the scheduler, used by tests to advance time
// manually.
func WithClock(c Clock) Option {
	return func(ch *Choreographer) { ch.clock = c }
}

// WithRand sets the random source for target counts, placements and
// streaming intervals.
func WithRand(rng *rand.Rand) Option {
	return func(ch *Choreographer) { ch.rng = rng }
}

// WithLogger attaches a logger. Defaults to a discard logger.
func WithLogger(l *log.Logger) Option {
	return func(ch *Choreographer) {
		if l != nil {
			ch.logger = l
		}
	}
}

// WithAnimator attaches the rendering collaborator's interpolation
// capability. Defaults to discarding animation requests.
func WithAnimator(a transition.Animator) Option {
	return func(ch *Choreographer) {
		if a != nil {
			ch.animator = a
		}
	}
}

// New creates a Choreographer for the given mode with an empty graph.
func New(mode Mode, opts ...Option) *Choreographer {
	c := &Choreographer{
		mode:       mode,
		clock:      RealClock(),
		rng:        rand.New(rand.NewPCG(42, 0)),
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		animator:   transition.Discard{},
		g:          graph.New(),
		ctrls:      make(map[string]*transition.Controller),
		collapsing: make(map[string]*collapsingEdge),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.planner = mutate.NewPlanner(mode.Policy, mutate.WithRand(c.rng))
	return c
}

// Phase returns the current top-level phase.
func (c *Choreographer) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Graph returns a deep copy of the current topology.
func (c *Choreographer) Graph() *graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g.Clone()
}

// Seed replaces the current topology with a copy of g, with every edge
// idle and tracking its live anchors. Intended for initial population;
// seeding mid-cycle is not supported.
func (c *Choreographer) Seed(g *graph.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.g = g.Clone()
	c.ctrls = make(map[string]*transition.Controller, c.g.EdgeCount())
	for _, e := range c.g.Edges() {
		from, okF := c.g.Node(e.From)
		to, okT := c.g.Node(e.To)
		if !okF || !okT {
			continue
		}
		c.ctrls[e.ID] = transition.New(e.ID, from.OutputAnchor(), to.InputAnchor(), c.animator)
	}
}

// TriggerUpdate starts one transition cycle. If a cycle is already in
// flight the request is queued and runs when the cycle settles; repeat
// requests while queued coalesce into one.
func (c *Choreographer) TriggerUpdate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trigger()
}

// trigger starts or queues a cycle. Caller holds mu.
func (c *Choreographer) trigger() {
	if c.phase != PhaseIdle {
		c.pending = true
		return
	}
	c.beginCycle()
}

// cyclePlan carries everything decided and captured up front: the next
// topology, the delta, and the collapse targets for removed edges. All
// anchor captures happen against the old graph before the swap - a
// removed node's position is never looked up after removal.
type cyclePlan struct {
	next      *graph.Graph
	delta     mutate.Delta
	collapses []plannedCollapse
}

type plannedCollapse struct {
	edge   graph.Edge
	kind   transition.State
	target geom.Point
}

// beginCycle runs phase 1 and schedules phases 2 and 3. Caller holds mu.
func (c *Choreographer) beginCycle() {
	c.phase = PhaseRetracting
	c.cycleStart = time.Now()

	span := c.mode.Policy.TargetMax - c.mode.Policy.TargetMin + 1
	target := c.mode.Policy.TargetMin + c.rng.IntN(span)
	observability.Choreo().OnCycleStart(c.mode.Name, target)
	observability.Choreo().OnPhaseStart(c.mode.Name, PhaseRetracting.String())
	c.logger.Debug("cycle start", "mode", c.mode.Name, "target", target)

	next, delta := c.planner.PlanTarget(c.g, target)
	plan := &cyclePlan{next: next, delta: delta}

	removed := make(map[string]bool, len(delta.NodesRemoved))
	for _, id := range delta.NodesRemoved {
		removed[id] = true
	}
	for _, e := range delta.EdgesRemoved {
		plan.collapses = append(plan.collapses, c.planCollapse(e, removed))
	}

	// Phase 1: every edge retracts; doomed nodes fade out.
	for _, e := range c.g.Edges() {
		if ctrl := c.ctrls[e.ID]; ctrl != nil {
			ctrl.Retract(c.mode.AnimDuration)
		}
	}
	for _, id := range delta.NodesRemoved {
		if n, ok := c.g.Node(id); ok {
			c.animator.Animate(transition.Animation{
				NodeID: id, Field: transition.FieldOpacity,
				FromVal: n.Opacity, ToVal: 0, Duration: c.mode.AnimDuration,
			})
			n.Opacity = 0
		}
	}

	c.schedule(c.mode.RetractDelay, func() { c.mutatePhase(plan) })
	c.schedule(c.mode.RetractDelay+c.mode.ExtendDelay, func() { c.extendPhase() })
}

// planCollapse captures the terminal animation for a removed edge using
// the old graph's anchors.
func (c *Choreographer) planCollapse(e graph.Edge, removed map[string]bool) plannedCollapse {
	var fromAnchor, toAnchor geom.Point
	if n, ok := c.g.Node(e.From); ok {
		fromAnchor = n.OutputAnchor()
	}
	if n, ok := c.g.Node(e.To); ok {
		toAnchor = n.InputAnchor()
	}
	if ctrl := c.ctrls[e.ID]; ctrl != nil {
		// Prefer the edge's owned visual points over live anchors; they
		// are what the viewer currently sees.
		fromAnchor, toAnchor = ctrl.Points()
	}

	switch {
	case removed[e.From] && removed[e.To]:
		return plannedCollapse{edge: e, kind: transition.CollapsingToMidpoint, target: geom.Midpoint(fromAnchor, toAnchor)}
	case removed[e.From]:
		return plannedCollapse{edge: e, kind: transition.CollapsingToDestination, target: toAnchor}
	default:
		return plannedCollapse{edge: e, kind: transition.CollapsingToSource, target: fromAnchor}
	}
}

// mutatePhase is phase 2: the atomic topology swap. Caller does NOT hold
// mu; this runs from a timer callback.
func (c *Choreographer) mutatePhase(plan *cyclePlan) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase = PhaseMutating
	observability.Choreo().OnPhaseStart(c.mode.Name, PhaseMutating.String())
	observability.Plan().OnPlan(
		len(plan.delta.NodesAdded), len(plan.delta.NodesRemoved),
		len(plan.delta.EdgesAdded), len(plan.delta.EdgesRemoved),
	)
	c.logger.Debug("mutate",
		"nodes+", len(plan.delta.NodesAdded), "nodes-", len(plan.delta.NodesRemoved),
		"edges+", len(plan.delta.EdgesAdded), "edges-", len(plan.delta.EdgesRemoved))

	// Settle retractions before the swap.
	for _, ctrl := range c.ctrls {
		ctrl.Complete()
	}

	// Removed edges start their collapse and outlive the swap as
	// transients; they disappear once the collapse duration elapses.
	for _, pc := range plan.collapses {
		ctrl := c.ctrls[pc.edge.ID]
		if ctrl == nil {
			ctrl = transition.New(pc.edge.ID, pc.target, pc.target, c.animator)
		}
		delete(c.ctrls, pc.edge.ID)
		ctrl.Collapse(pc.kind, pc.target, c.mode.CollapseDuration)
		c.collapsing[pc.edge.ID] = &collapsingEdge{edge: pc.edge, ctrl: ctrl}

		id := pc.edge.ID
		c.schedule(c.mode.CollapseDuration, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if ce, ok := c.collapsing[id]; ok {
				ce.ctrl.Complete()
				delete(c.collapsing, id)
			}
		})
	}

	// The swap itself.
	c.g = plan.next

	// Controllers for new edges bud out of their source's anchor.
	for _, e := range plan.delta.EdgesAdded {
		if n, ok := c.g.Node(e.From); ok {
			c.ctrls[e.ID] = transition.NewBudding(e.ID, n.OutputAnchor(), c.animator)
		}
	}
	// Drop controllers for edges that no longer exist (already moved to
	// collapsing above; anything else was pruned silently).
	live := make(map[string]bool, c.g.EdgeCount())
	for _, e := range c.g.Edges() {
		live[e.ID] = true
	}
	for id := range c.ctrls {
		if !live[id] {
			delete(c.ctrls, id)
		}
	}
}

// extendPhase is phase 3: edges grow out to the new live anchors and
// invisible nodes fade in. Runs from a timer callback.
func (c *Choreographer) extendPhase() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.phase = PhaseExtending
	observability.Choreo().OnPhaseStart(c.mode.Name, PhaseExtending.String())

	for _, e := range c.g.Edges() {
		ctrl := c.ctrls[e.ID]
		if ctrl == nil {
			continue
		}
		from, okF := c.g.Node(e.From)
		to, okT := c.g.Node(e.To)
		if !okF || !okT {
			continue
		}
		// Anchors captured here, before Extend; the controller never
		// reads the graph.
		ctrl.Extend(from.OutputAnchor(), to.InputAnchor(), c.mode.AnimDuration)
	}

	for _, n := range c.g.Nodes() {
		if n.Opacity == 0 {
			c.animator.Animate(transition.Animation{
				NodeID: n.ID, Field: transition.FieldOpacity,
				FromVal: 0, ToVal: 1, Duration: c.mode.AnimDuration,
			})
			n.Opacity = 1
		}
	}

	c.schedule(c.mode.SettleDelay, func() { c.settle() })
}

// settle finishes the cycle: animations complete, emphasis clears, the
// queued trigger (if any) runs, and streaming reschedules itself.
func (c *Choreographer) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ctrl := range c.ctrls {
		ctrl.Complete()
	}
	for _, n := range c.g.Nodes() {
		n.New = false
	}
	c.phase = PhaseIdle

	observability.Choreo().OnCycleComplete(c.mode.Name, c.g.NodeCount(), c.g.EdgeCount(), time.Since(c.cycleStart))
	c.logger.Debug("cycle settled", "nodes", c.g.NodeCount(), "edges", c.g.EdgeCount())

	if c.pending {
		c.pending = false
		c.beginCycle()
		return
	}
	if c.streaming {
		c.scheduleNextStream()
	}
}

// schedule arms a phase timer. The callback is responsible for taking
// the choreographer's mutex itself.
func (c *Choreographer) schedule(d time.Duration, f func()) {
	c.clock.AfterFunc(d, f)
}

// StartStreaming begins the continuous mode: run a cycle now, then
// reschedule after a random pause in [StreamMin, StreamMax] until
// stopped. Calling it while already streaming is a no-op.
func (c *Choreographer) StartStreaming() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streaming {
		return
	}
	c.streaming = true
	c.logger.Info("streaming started", "mode", c.mode.Name)
	c.trigger()
}

// StopStreaming cancels the pending re-trigger so no further update
// fires. It does not interrupt an already-committed in-flight cycle;
// that cycle's later phases still run.
func (c *Choreographer) StopStreaming() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.streaming {
		return
	}
	c.streaming = false
	c.pending = false
	if c.streamTimer != nil {
		c.streamTimer.Stop()
		c.streamTimer = nil
	}
	c.logger.Info("streaming stopped")
}

// IsStreaming reports whether streaming mode is running.
func (c *Choreographer) IsStreaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.streaming
}

// scheduleNextStream arms the inter-cycle pause timer. Caller holds mu.
func (c *Choreographer) scheduleNextStream() {
	span := c.mode.StreamMax - c.mode.StreamMin
	interval := c.mode.StreamMin + time.Duration(c.rng.Int64N(int64(span)+1))
	c.streamTimer = c.clock.AfterFunc(interval, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.streamTimer = nil
		if !c.streaming {
			return
		}
		c.trigger()
	})
}
