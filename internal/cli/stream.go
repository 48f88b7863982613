package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nodeflow/nodeflow/pkg/observability"
)

// logHooks forwards choreography events to the structured logger.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnCycleStart(mode string, target int) {
	h.logger.Info("cycle start", "mode", mode, "target", target)
}

func (h logHooks) OnPhaseStart(mode, phase string) {
	h.logger.Debug("phase", "mode", mode, "phase", phase)
}

func (h logHooks) OnCycleComplete(mode string, nodes, edges int, elapsed time.Duration) {
	h.logger.Info("cycle complete", "mode", mode, "nodes", nodes, "edges", edges,
		"elapsed", elapsed.Round(time.Millisecond))
}

func (h logHooks) OnPlan(nodesAdded, nodesRemoved, edgesAdded, edgesRemoved int) {
	h.logger.Debug("plan", "nodes+", nodesAdded, "nodes-", nodesRemoved,
		"edges+", edgesAdded, "edges-", edgesRemoved)
}

func newStreamCmd() *cobra.Command {
	var (
		cfgPath  string
		modeName string
		seedFile string
		seed     uint64
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Run choreography cycles headlessly and log each transition",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			engine, _, err := newEngine(cfgPath, modeName, seedFile, seed, logger)
			if err != nil {
				return err
			}

			observability.SetChoreoHooks(logHooks{logger: logger})
			observability.SetPlanHooks(logHooks{logger: logger})
			defer observability.Reset()

			prog := newProgress(logger)
			engine.StartStreaming()

			var expired <-chan time.Time
			if duration > 0 {
				t := time.NewTimer(duration)
				defer t.Stop()
				expired = t.C
			}

			select {
			case <-cmd.Context().Done():
			case <-expired:
			}

			engine.StopStreaming()
			g := engine.Graph()
			prog.done(fmt.Sprintf("Streaming finished with %d nodes and %d edges", g.NodeCount(), g.EdgeCount()))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "nodeflow.toml", "path to optional TOML config")
	cmd.Flags().StringVar(&modeName, "mode", "streaming", "choreography mode (randomize or streaming)")
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "JSON graph to seed the topology")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 uses the config seed)")
	cmd.Flags().DurationVar(&duration, "duration", 0, "stop after this long (0 runs until interrupted)")

	return cmd
}
