package cli

import (
	"strconv"
	"sync"
	"time"

	"github.com/nodeflow/nodeflow/pkg/core/transition"
	"github.com/nodeflow/nodeflow/pkg/geom"
)

// tweenAnimator is the rendering side of the transition layer. The
// choreographer hands it animation specs; the demo view samples it every
// frame to get interpolated endpoint positions and opacities. Animate is
// called from timer goroutines while sampling happens on the UI loop, so
// the table is mutex guarded.
type tweenAnimator struct {
	mu     sync.Mutex
	active map[string]activeTween
}

type activeTween struct {
	spec  transition.Animation
	start time.Time
}

func newTweenAnimator() *tweenAnimator {
	return &tweenAnimator{active: make(map[string]activeTween)}
}

func tweenKey(a transition.Animation) string {
	if a.EdgeID != "" {
		return "e|" + a.EdgeID + "|" + strconv.Itoa(int(a.Field))
	}
	return "n|" + a.NodeID
}

// Animate implements transition.Animator. A new spec for the same
// edge/field replaces any in-flight one, which is exactly the takeover
// behavior a mid-phase re-plan needs.
func (a *tweenAnimator) Animate(spec transition.Animation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active[tweenKey(spec)] = activeTween{spec: spec, start: time.Now()}
}

// smoothstep easing keeps starts and stops gentle.
func ease(t float64) float64 {
	return t * t * (3 - 2*t)
}

// pointAt samples the animated position of one edge endpoint. settled is
// the value to use when no animation is running (the controller-owned
// point from the snapshot).
func (a *tweenAnimator) pointAt(edgeID string, field transition.Field, settled geom.Point, now time.Time) geom.Point {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := "e|" + edgeID + "|" + strconv.Itoa(int(field))
	tw, ok := a.active[key]
	if !ok {
		return settled
	}
	t := progressOf(tw, now)
	if t >= 1 {
		delete(a.active, key)
		return tw.spec.To
	}
	return tw.spec.From.Lerp(tw.spec.To, ease(t))
}

// opacityAt samples the animated opacity of one node.
func (a *tweenAnimator) opacityAt(nodeID string, settled float64, now time.Time) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := "n|" + nodeID
	tw, ok := a.active[key]
	if !ok {
		return settled
	}
	t := progressOf(tw, now)
	if t >= 1 {
		delete(a.active, key)
		return tw.spec.ToVal
	}
	return tw.spec.FromVal + (tw.spec.ToVal-tw.spec.FromVal)*ease(t)
}

// drop clears finished or orphaned tweens for edges that no longer
// exist, so the table cannot grow without bound across cycles.
func (a *tweenAnimator) drop(liveEdges map[string]bool, liveNodes map[string]bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, tw := range a.active {
		if tw.spec.EdgeID != "" && !liveEdges[tw.spec.EdgeID] {
			delete(a.active, key)
		}
		if tw.spec.EdgeID == "" && !liveNodes[tw.spec.NodeID] {
			delete(a.active, key)
		}
	}
}

func progressOf(tw activeTween, now time.Time) float64 {
	if tw.spec.Duration <= 0 {
		return 1
	}
	return float64(now.Sub(tw.start)) / float64(tw.spec.Duration)
}
