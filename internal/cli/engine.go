package cli

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/nodeflow/nodeflow/pkg/choreo"
	"github.com/nodeflow/nodeflow/pkg/config"
	"github.com/nodeflow/nodeflow/pkg/core/graph"
	"github.com/nodeflow/nodeflow/pkg/core/mutate"
	"github.com/nodeflow/nodeflow/pkg/errors"
	"github.com/nodeflow/nodeflow/pkg/graphio"
)

// modeByName resolves a --mode flag value against the loaded config.
func modeByName(cfg config.Config, name string) (choreo.Mode, error) {
	switch name {
	case "randomize":
		return cfg.RandomizeMode(), nil
	case "streaming":
		return cfg.StreamingMode(), nil
	default:
		return choreo.Mode{}, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (want randomize or streaming)", name)
	}
}

// newEngine builds a choreographer from the shared flags: config file,
// mode name, seed, and optional seed graph. A zero seed falls back to
// the config's seed.
func newEngine(cfgPath, modeName, seedFile string, seed uint64, logger *log.Logger, extra ...choreo.Option) (*choreo.Choreographer, config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, cfg, err
	}
	mode, err := modeByName(cfg, modeName)
	if err != nil {
		return nil, cfg, err
	}
	if seed == 0 {
		seed = cfg.Seed
	}

	opts := append([]choreo.Option{
		choreo.WithRand(rand.New(rand.NewPCG(seed, 0))),
		choreo.WithLogger(logger),
	}, extra...)
	c := choreo.New(mode, opts...)

	if seedFile != "" {
		g, err := graphio.ImportJSON(seedFile)
		if err != nil {
			return nil, cfg, err
		}
		if err := g.Validate(); err != nil {
			return nil, cfg, errors.Wrap(errors.ErrCodeInvalidGraph, err, "seed graph %s", seedFile)
		}
		c.Seed(g)
	}
	return c, cfg, nil
}

// seedOrPlan returns the graph to export: the imported seed file if
// given, otherwise one planned topology from an empty graph. Planned
// nodes come out at full opacity since a static snapshot has no fade-in.
func seedOrPlan(seedFile string, mode choreo.Mode, seed uint64) (*graph.Graph, error) {
	if seedFile != "" {
		return graphio.ImportJSON(seedFile)
	}
	p := mutate.NewPlanner(mode.Policy, mutate.WithRand(rand.New(rand.NewPCG(seed, 0))))
	g, _ := p.Plan(graph.New())
	for _, n := range g.Nodes() {
		n.Opacity = 1
		n.New = false
	}
	return g, nil
}
