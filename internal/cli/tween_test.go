package cli

import (
	"testing"
	"time"

	"github.com/nodeflow/nodeflow/pkg/core/transition"
	"github.com/nodeflow/nodeflow/pkg/geom"
)

func TestTweenPointInterpolation(t *testing.T) {
	anim := newTweenAnimator()
	spec := transition.Animation{
		EdgeID:   "e1",
		Field:    transition.FieldTo,
		From:     geom.Point{X: 0, Y: 0},
		To:       geom.Point{X: 100, Y: 0},
		Duration: 100 * time.Millisecond,
	}
	anim.Animate(spec)
	start := anim.active[tweenKey(spec)].start

	mid := anim.pointAt("e1", transition.FieldTo, geom.Point{}, start.Add(50*time.Millisecond))
	if mid.X <= 0 || mid.X >= 100 {
		t.Errorf("midpoint sample X = %v, want strictly between 0 and 100", mid.X)
	}

	end := anim.pointAt("e1", transition.FieldTo, geom.Point{}, start.Add(200*time.Millisecond))
	if end != spec.To {
		t.Errorf("finished sample = %v, want %v", end, spec.To)
	}

	// Finished tween is dropped; settled value wins afterwards.
	settled := geom.Point{X: 42, Y: 7}
	if got := anim.pointAt("e1", transition.FieldTo, settled, start); got != settled {
		t.Errorf("post-completion sample = %v, want settled %v", got, settled)
	}
}

func TestTweenOpacity(t *testing.T) {
	anim := newTweenAnimator()
	spec := transition.Animation{
		NodeID:   "A",
		Field:    transition.FieldOpacity,
		FromVal:  0,
		ToVal:    1,
		Duration: 100 * time.Millisecond,
	}
	anim.Animate(spec)
	start := anim.active[tweenKey(spec)].start

	mid := anim.opacityAt("A", 0, start.Add(50*time.Millisecond))
	if mid <= 0 || mid >= 1 {
		t.Errorf("mid opacity = %v, want strictly between 0 and 1", mid)
	}

	if got := anim.opacityAt("A", 0, start.Add(time.Second)); got != 1 {
		t.Errorf("finished opacity = %v, want 1", got)
	}
}

func TestTweenReplaceTakesOver(t *testing.T) {
	anim := newTweenAnimator()
	first := transition.Animation{
		EdgeID: "e1", Field: transition.FieldTo,
		From: geom.Point{X: 0}, To: geom.Point{X: 100},
		Duration: time.Hour,
	}
	anim.Animate(first)
	second := first
	second.To = geom.Point{X: -100}
	anim.Animate(second)

	got := anim.pointAt("e1", transition.FieldTo, geom.Point{}, time.Now().Add(2*time.Hour))
	if got != second.To {
		t.Errorf("after replacement, final point = %v, want %v", got, second.To)
	}
}

func TestTweenDropOrphans(t *testing.T) {
	anim := newTweenAnimator()
	anim.Animate(transition.Animation{EdgeID: "gone", Field: transition.FieldTo, Duration: time.Hour})
	anim.Animate(transition.Animation{NodeID: "Z", Field: transition.FieldOpacity, Duration: time.Hour})
	anim.Animate(transition.Animation{EdgeID: "kept", Field: transition.FieldTo, Duration: time.Hour})

	anim.drop(map[string]bool{"kept": true}, map[string]bool{})

	if len(anim.active) != 1 {
		t.Fatalf("active tweens = %d, want 1", len(anim.active))
	}
	for _, tw := range anim.active {
		if tw.spec.EdgeID != "kept" {
			t.Errorf("surviving tween = %+v, want edge kept", tw.spec)
		}
	}
}
