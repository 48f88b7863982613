// Package observability provides hooks for instrumenting the
// choreography engine without hard dependencies on any backend.
//
// The package uses a simple hooks pattern: interfaces per event
// category, no-op defaults, and a registry that the main package fills
// at startup. Libraries emit events; backends (logging, metrics,
// tracing) are wired once, from the outside.
package observability

import (
	"sync"
	"time"
)

// ChoreoHooks receives events from the graph choreographer.
type ChoreoHooks interface {
	// OnCycleStart fires when a transition cycle begins, with the
	// planned target node count.
	OnCycleStart(mode string, target int)

	// OnPhaseStart fires as each phase of the cycle begins.
	OnPhaseStart(mode, phase string)

	// OnCycleComplete fires when a cycle settles, with the resulting
	// graph size and total elapsed time.
	OnCycleComplete(mode string, nodes, edges int, elapsed time.Duration)
}

// PlanHooks receives events from the topology planner.
type PlanHooks interface {
	// OnPlan fires after each plan with the structural delta sizes.
	OnPlan(nodesAdded, nodesRemoved, edgesAdded, edgesRemoved int)
}

// NoopChoreoHooks is a no-op implementation of ChoreoHooks.
type NoopChoreoHooks struct{}

func (NoopChoreoHooks) OnCycleStart(string, int)                        {}
func (NoopChoreoHooks) OnPhaseStart(string, string)                     {}
func (NoopChoreoHooks) OnCycleComplete(string, int, int, time.Duration) {}

// NoopPlanHooks is a no-op implementation of PlanHooks.
type NoopPlanHooks struct{}

func (NoopPlanHooks) OnPlan(int, int, int, int) {}

var (
	choreoHooks ChoreoHooks = NoopChoreoHooks{}
	planHooks   PlanHooks   = NoopPlanHooks{}
	hooksMu     sync.RWMutex
)

// SetChoreoHooks registers custom choreographer hooks.
// Call once at application startup before any choreography runs.
func SetChoreoHooks(h ChoreoHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		choreoHooks = h
	}
}

// SetPlanHooks registers custom planner hooks.
func SetPlanHooks(h PlanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		planHooks = h
	}
}

// Choreo returns the registered choreographer hooks.
func Choreo() ChoreoHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return choreoHooks
}

// Plan returns the registered planner hooks.
func Plan() PlanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return planHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	choreoHooks = NoopChoreoHooks{}
	planHooks = NoopPlanHooks{}
}
