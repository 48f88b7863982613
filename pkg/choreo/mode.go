package choreo

import (
	"time"

	"github.com/nodeflow/nodeflow/pkg/core/mutate"
)

// Mode bundles the timing constants and mutation policy of one operating
// mode. The two built-in modes differ only here; the phase machine is
// identical.
type Mode struct {
	Name string

	// RetractDelay (d1) separates phase 1 (retraction start) from
	// phase 2 (topology swap).
	RetractDelay time.Duration

	// ExtendDelay (d2) separates phase 2 from phase 3 (extension).
	ExtendDelay time.Duration

	// SettleDelay runs after phase 3 before the cycle completes and
	// newly-added emphasis is cleared.
	SettleDelay time.Duration

	// AnimDuration is handed to every retract/extend/fade animation.
	AnimDuration time.Duration

	// CollapseDuration is how long a removed edge keeps collapsing
	// before it is destroyed, measured from phase 2.
	CollapseDuration time.Duration

	// StreamMin/StreamMax bound the uniformly random pause between
	// streaming cycles.
	StreamMin time.Duration
	StreamMax time.Duration

	Policy mutate.Policy
}

// Randomize is the manual mode: short delays, scattered placement,
// lightly constrained topology.
func Randomize() Mode {
	return Mode{
		Name:             "randomize",
		RetractDelay:     200 * time.Millisecond,
		ExtendDelay:      250 * time.Millisecond,
		SettleDelay:      200 * time.Millisecond,
		AnimDuration:     180 * time.Millisecond,
		CollapseDuration: 180 * time.Millisecond,
		StreamMin:        500 * time.Millisecond,
		StreamMax:        1500 * time.Millisecond,
		Policy:           mutate.RandomizePolicy(),
	}
}

// Streaming is the continuous mode: tree layout, DAG plus degree
// constraints, and self-rescheduling after each cycle.
func Streaming() Mode {
	return Mode{
		Name:             "streaming",
		RetractDelay:     250 * time.Millisecond,
		ExtendDelay:      300 * time.Millisecond,
		SettleDelay:      250 * time.Millisecond,
		AnimDuration:     220 * time.Millisecond,
		CollapseDuration: 220 * time.Millisecond,
		StreamMin:        500 * time.Millisecond,
		StreamMax:        1500 * time.Millisecond,
		Policy:           mutate.StreamingPolicy(),
	}
}
