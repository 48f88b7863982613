// Package transition owns the visual endpoints of edges during
// choreography.
//
// Every edge has a Controller holding its animated from/to points,
// decoupled from the live node anchors. During a transition window the
// drawn geometry comes from these owned points only - never from a live
// node lookup - so an edge can keep collapsing smoothly after its node is
// already gone. Commands capture the live anchor values they need at
// invocation time; nothing is looked up lazily afterward.
//
// Controllers do not self-schedule. The choreographer issues Retract,
// Extend and Collapse, and interpolation over time is delegated to an
// external Animator (the rendering collaborator). Complete advances the
// owned points to their command targets; the choreographer calls it when
// a phase's duration has elapsed.
package transition

import (
	"time"

	"github.com/nodeflow/nodeflow/pkg/geom"
)

// State is the per-edge transition state.
type State int

const (
	// Idle: animated points track the connected nodes' live anchors.
	Idle State = iota
	// Retracting: the to-point is moving toward the from-point.
	Retracting
	// Retracted: the to-point coincides with the from-point, held.
	Retracted
	// Extending: the to-point is moving back out to the live
	// destination anchor.
	Extending
	// CollapsingToSource: both points converge on the source anchor
	// because the destination node is being removed.
	CollapsingToSource
	// CollapsingToDestination: both points converge on the destination
	// anchor because the source node is being removed.
	CollapsingToDestination
	// CollapsingToMidpoint: both endpoints vanish; the edge folds into
	// the midpoint between its last anchors.
	CollapsingToMidpoint
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Retracting:
		return "retracting"
	case Retracted:
		return "retracted"
	case Extending:
		return "extending"
	case CollapsingToSource:
		return "collapsing-to-source"
	case CollapsingToDestination:
		return "collapsing-to-destination"
	case CollapsingToMidpoint:
		return "collapsing-to-midpoint"
	default:
		return "unknown"
	}
}

// Collapsing reports whether the state is one of the terminal collapse
// variants.
func (s State) Collapsing() bool {
	return s == CollapsingToSource || s == CollapsingToDestination || s == CollapsingToMidpoint
}

// Field names an animatable property.
type Field int

const (
	// FieldFrom is an edge's animated source endpoint.
	FieldFrom Field = iota
	// FieldTo is an edge's animated destination endpoint.
	FieldTo
	// FieldOpacity is a node's opacity scalar.
	FieldOpacity
)

// Animation asks the rendering collaborator to interpolate one field
// from a value to a target over a duration. Point animations set EdgeID;
// opacity animations set NodeID.
type Animation struct {
	EdgeID   string
	NodeID   string
	Field    Field
	From     geom.Point
	To       geom.Point
	FromVal  float64
	ToVal    float64
	Duration time.Duration
}

// Animator performs interpolation over time. The core never animates;
// it states intent and advances its own values at phase boundaries.
type Animator interface {
	Animate(a Animation)
}

// Discard is an Animator that drops every animation. Useful headless.
type Discard struct{}

// Animate implements Animator.
func (Discard) Animate(Animation) {}

// Controller is the per-edge state machine.
type Controller struct {
	edgeID   string
	state    State
	from     geom.Point // current owned from-point
	to       geom.Point // current owned to-point
	targetF  geom.Point // where from is heading
	targetT  geom.Point // where to is heading
	animator Animator
}

// New creates a controller with both points at the given live anchors,
// in the Idle state.
func New(edgeID string, liveFrom, liveTo geom.Point, a Animator) *Controller {
	if a == nil {
		a = Discard{}
	}
	return &Controller{
		edgeID:   edgeID,
		state:    Idle,
		from:     liveFrom,
		to:       liveTo,
		targetF:  liveFrom,
		targetT:  liveTo,
		animator: a,
	}
}

// NewBudding creates a controller for a freshly added edge: both points
// start at the source anchor so the first Extend grows the edge out of
// its node.
func NewBudding(edgeID string, liveFrom geom.Point, a Animator) *Controller {
	return New(edgeID, liveFrom, liveFrom, a)
}

// EdgeID returns the controlled edge's ID.
func (c *Controller) EdgeID() string { return c.edgeID }

// State returns the current transition state.
func (c *Controller) State() State { return c.state }

// Points returns the current owned endpoints.
func (c *Controller) Points() (from, to geom.Point) { return c.from, c.to }

// Retract animates the to-point toward the current from-point.
func (c *Controller) Retract(d time.Duration) {
	c.state = Retracting
	c.targetF = c.from
	c.targetT = c.from
	c.animator.Animate(Animation{
		EdgeID: c.edgeID, Field: FieldTo,
		From: c.to, To: c.from, Duration: d,
	})
}

// Extend snaps the from-point to the live source anchor and animates the
// to-point out to the live destination anchor. Both anchors are captured
// by the caller before any structural change; Extend never looks a node
// up itself.
func (c *Controller) Extend(liveFrom, liveTo geom.Point, d time.Duration) {
	c.state = Extending
	c.from = liveFrom
	c.targetF = liveFrom
	c.targetT = liveTo
	c.animator.Animate(Animation{
		EdgeID: c.edgeID, Field: FieldTo,
		From: c.from, To: liveTo, Duration: d,
	})
}

// Collapse animates both endpoints to a single captured point. The kind
// must be one of the Collapsing states and records which endpoint (or
// midpoint) the edge is folding into; the edge is destroyed by the
// choreographer once the duration elapses.
func (c *Controller) Collapse(kind State, target geom.Point, d time.Duration) {
	if !kind.Collapsing() {
		kind = CollapsingToMidpoint
	}
	c.state = kind
	c.targetF = target
	c.targetT = target
	c.animator.Animate(Animation{
		EdgeID: c.edgeID, Field: FieldFrom,
		From: c.from, To: target, Duration: d,
	})
	c.animator.Animate(Animation{
		EdgeID: c.edgeID, Field: FieldTo,
		From: c.to, To: target, Duration: d,
	})
}

// Complete advances the owned points to the current command's targets
// and settles the state: Retracting becomes Retracted, Extending becomes
// Idle, collapse states stay (the edge is about to be destroyed).
func (c *Controller) Complete() {
	c.from = c.targetF
	c.to = c.targetT
	switch c.state {
	case Retracting:
		c.state = Retracted
	case Extending:
		c.state = Idle
	}
}

// Track updates an Idle edge's points to follow the live anchors.
// Outside a transition window the animated points mirror the nodes.
func (c *Controller) Track(liveFrom, liveTo geom.Point) {
	if c.state != Idle {
		return
	}
	c.from, c.targetF = liveFrom, liveFrom
	c.to, c.targetT = liveTo, liveTo
}
