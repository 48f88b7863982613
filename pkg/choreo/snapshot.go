package choreo

import (
	"github.com/nodeflow/nodeflow/pkg/geom"
)

// NodeView is the read-only per-frame view of a node.
type NodeView struct {
	ID       string     `json:"id"`
	Position geom.Point `json:"position"`
	Opacity  float64    `json:"opacity"`
	Level    int        `json:"level"`
	New      bool       `json:"new,omitempty"`
}

// EdgeView is the read-only per-frame view of an edge. FromPoint and
// ToPoint are the animated endpoints owned by the transition layer, not
// the nodes' live anchors.
type EdgeView struct {
	ID         string     `json:"id"`
	From       string     `json:"from"`
	To         string     `json:"to"`
	FromPoint  geom.Point `json:"from_point"`
	ToPoint    geom.Point `json:"to_point"`
	Collapsing bool       `json:"collapsing,omitempty"`
}

// Snapshot is a coherent renderable view of the whole scene. It is
// valid at any instant, including mid-phase: animated points are always
// initialized, so a reader never sees a null endpoint.
type Snapshot struct {
	Nodes     []NodeView `json:"nodes"`
	Edges     []EdgeView `json:"edges"`
	Phase     string     `json:"phase"`
	Streaming bool       `json:"streaming"`
}

// Snapshot returns the current renderable state: every live node and
// edge, plus any transient edges still collapsing after removal.
func (c *Choreographer) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Phase:     c.phase.String(),
		Streaming: c.streaming,
	}

	for _, n := range c.g.Nodes() {
		snap.Nodes = append(snap.Nodes, NodeView{
			ID:       n.ID,
			Position: n.Position,
			Opacity:  n.Opacity,
			Level:    n.Level,
			New:      n.New,
		})
	}

	for _, e := range c.g.Edges() {
		view := EdgeView{ID: e.ID, From: e.From, To: e.To}
		if ctrl := c.ctrls[e.ID]; ctrl != nil {
			view.FromPoint, view.ToPoint = ctrl.Points()
		} else if from, ok := c.g.Node(e.From); ok {
			// No transition in progress: endpoints mirror live anchors.
			view.FromPoint = from.OutputAnchor()
			if to, ok := c.g.Node(e.To); ok {
				view.ToPoint = to.InputAnchor()
			}
		}
		snap.Edges = append(snap.Edges, view)
	}

	for _, ce := range c.collapsing {
		view := EdgeView{ID: ce.edge.ID, From: ce.edge.From, To: ce.edge.To, Collapsing: true}
		view.FromPoint, view.ToPoint = ce.ctrl.Points()
		snap.Edges = append(snap.Edges, view)
	}

	return snap
}

// EdgePoints returns the animated endpoints of one edge and whether it
// exists (live or collapsing).
func (c *Choreographer) EdgePoints(edgeID string) (from, to geom.Point, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ctrl := c.ctrls[edgeID]; ctrl != nil {
		from, to = ctrl.Points()
		return from, to, true
	}
	if ce, ok2 := c.collapsing[edgeID]; ok2 {
		from, to = ce.ctrl.Points()
		return from, to, true
	}
	return geom.Point{}, geom.Point{}, false
}
