// Package config loads optional TOML configuration for the choreography
// engine. Every field has a default matching the built-in modes, so an
// absent or partial file is fine.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nodeflow/nodeflow/pkg/choreo"
	"github.com/nodeflow/nodeflow/pkg/errors"
)

// DefaultSeed seeds the engine's random source when no seed is given.
const DefaultSeed uint64 = 42

// Duration wraps time.Duration so TOML values can be written as "250ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Canvas bounds the layout area.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// ModeTiming overrides the timing and sizing constants of one mode.
type ModeTiming struct {
	RetractDelay     Duration `toml:"retract_delay"`
	ExtendDelay      Duration `toml:"extend_delay"`
	SettleDelay      Duration `toml:"settle_delay"`
	AnimDuration     Duration `toml:"anim_duration"`
	CollapseDuration Duration `toml:"collapse_duration"`
	StreamMin        Duration `toml:"stream_min"`
	StreamMax        Duration `toml:"stream_max"`
	TargetMin        int      `toml:"target_min"`
	TargetMax        int      `toml:"target_max"`
}

// Config is the full nodeflow configuration.
type Config struct {
	Seed      uint64     `toml:"seed"`
	Canvas    Canvas     `toml:"canvas"`
	Randomize ModeTiming `toml:"randomize"`
	Streaming ModeTiming `toml:"streaming"`
}

// Default returns a Config mirroring the built-in modes.
func Default() Config {
	return Config{
		Seed:      DefaultSeed,
		Canvas:    Canvas{Width: 800, Height: 600},
		Randomize: timingFromMode(choreo.Randomize()),
		Streaming: timingFromMode(choreo.Streaming()),
	}
}

func timingFromMode(m choreo.Mode) ModeTiming {
	return ModeTiming{
		RetractDelay:     Duration{m.RetractDelay},
		ExtendDelay:      Duration{m.ExtendDelay},
		SettleDelay:      Duration{m.SettleDelay},
		AnimDuration:     Duration{m.AnimDuration},
		CollapseDuration: Duration{m.CollapseDuration},
		StreamMin:        Duration{m.StreamMin},
		StreamMax:        Duration{m.StreamMax},
		TargetMin:        m.Policy.TargetMin,
		TargetMax:        m.Policy.TargetMax,
	}
}

// Load reads a TOML file over the defaults. A missing file is not an
// error; it just yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and orderings.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive")
	}
	for _, mt := range []struct {
		name string
		t    ModeTiming
	}{
		{"randomize", c.Randomize},
		{"streaming", c.Streaming},
	} {
		if mt.t.TargetMin < 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s.target_min must be at least 1", mt.name)
		}
		if mt.t.TargetMax < mt.t.TargetMin {
			return errors.New(errors.ErrCodeInvalidConfig, "%s.target_max must be >= target_min", mt.name)
		}
		if mt.t.StreamMax.Duration < mt.t.StreamMin.Duration {
			return errors.New(errors.ErrCodeInvalidConfig, "%s.stream_max must be >= stream_min", mt.name)
		}
		for _, d := range []Duration{mt.t.RetractDelay, mt.t.ExtendDelay, mt.t.SettleDelay, mt.t.AnimDuration, mt.t.CollapseDuration} {
			if d.Duration <= 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "%s delays must be positive", mt.name)
			}
		}
	}
	return nil
}

// RandomizeMode builds the randomize mode from the config.
func (c Config) RandomizeMode() choreo.Mode {
	return applyTiming(choreo.Randomize(), c.Randomize)
}

// StreamingMode builds the streaming mode from the config.
func (c Config) StreamingMode() choreo.Mode {
	return applyTiming(choreo.Streaming(), c.Streaming)
}

func applyTiming(m choreo.Mode, t ModeTiming) choreo.Mode {
	m.RetractDelay = t.RetractDelay.Duration
	m.ExtendDelay = t.ExtendDelay.Duration
	m.SettleDelay = t.SettleDelay.Duration
	m.AnimDuration = t.AnimDuration.Duration
	m.CollapseDuration = t.CollapseDuration.Duration
	m.StreamMin = t.StreamMin.Duration
	m.StreamMax = t.StreamMax.Duration
	m.Policy.TargetMin = t.TargetMin
	m.Policy.TargetMax = t.TargetMax
	return m
}
