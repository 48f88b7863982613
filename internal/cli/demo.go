package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nodeflow/nodeflow/pkg/choreo"
	"github.com/nodeflow/nodeflow/pkg/core/transition"
	"github.com/nodeflow/nodeflow/pkg/geom"
)

const frameInterval = 33 * time.Millisecond

type frameMsg time.Time

var (
	nodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	newNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	dimNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	edgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	phaseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

// cell classes for the canvas grid.
const (
	classEmpty = iota
	classEdge
	classNode
	classNewNode
	classDimNode
)

type cell struct {
	ch    rune
	class int
}

type demoModel struct {
	engine *choreo.Choreographer
	anim   *tweenAnimator

	canvasW float64
	canvasH float64

	width  int
	height int
}

func (m demoModel) Init() tea.Cmd {
	return tea.Batch(frameTick(), func() tea.Msg {
		m.engine.StartStreaming()
		return nil
	})
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		return m, frameTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.engine.StopStreaming()
			return m, tea.Quit
		case " ", "enter":
			m.engine.TriggerUpdate()
			return m, nil
		case "s":
			if m.engine.IsStreaming() {
				m.engine.StopStreaming()
			} else {
				m.engine.StartStreaming()
			}
			return m, nil
		}
	}
	return m, nil
}

func (m demoModel) View() string {
	if m.width < 20 || m.height < 8 {
		return "window too small"
	}

	rows := m.height - 2
	cols := m.width
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
	}

	snap := m.engine.Snapshot()
	now := time.Now()

	liveEdges := make(map[string]bool, len(snap.Edges))
	liveNodes := make(map[string]bool, len(snap.Nodes))

	for _, e := range snap.Edges {
		liveEdges[e.ID] = true
		from := m.anim.pointAt(e.ID, transition.FieldFrom, e.FromPoint, now)
		to := m.anim.pointAt(e.ID, transition.FieldTo, e.ToPoint, now)
		m.drawEdge(grid, from, to)
	}
	for _, n := range snap.Nodes {
		liveNodes[n.ID] = true
		opacity := m.anim.opacityAt(n.ID, n.Opacity, now)
		m.drawNode(grid, n.ID, n.Position, opacity, n.New)
	}
	m.anim.drop(liveEdges, liveNodes)

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(renderRow(row))
		b.WriteByte('\n')
	}
	b.WriteString(m.statusLine(snap))
	return b.String()
}

// toCell maps a world coordinate onto the canvas grid.
func (m demoModel) toCell(p geom.Point, rows, cols int) (row, col int) {
	col = int(math.Round(p.X / m.canvasW * float64(cols-1)))
	row = int(math.Round(p.Y / m.canvasH * float64(rows-1)))
	return min(max(row, 0), rows-1), min(max(col, 0), cols-1)
}

// drawEdge rasterizes a straight segment between the animated endpoints.
// A fully retracted edge (zero length) draws nothing.
func (m demoModel) drawEdge(grid [][]cell, from, to geom.Point) {
	rows, cols := len(grid), len(grid[0])
	r0, c0 := m.toCell(from, rows, cols)
	r1, c1 := m.toCell(to, rows, cols)
	if r0 == r1 && c0 == c1 {
		return
	}

	steps := max(abs(r1-r0), abs(c1-c0))
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r := int(math.Round(float64(r0) + t*float64(r1-r0)))
		c := int(math.Round(float64(c0) + t*float64(c1-c0)))
		ch := '·'
		if i == steps {
			ch = '▸'
		}
		if grid[r][c].class == classEmpty {
			grid[r][c] = cell{ch: ch, class: classEdge}
		}
	}
}

// drawNode places the label, centered on the node's position. Nodes
// fading below half opacity render dim; fresh nodes get the emphasis
// color until their first cycle settles.
func (m demoModel) drawNode(grid [][]cell, id string, pos geom.Point, opacity float64, fresh bool) {
	if opacity <= 0.05 {
		return
	}
	rows, cols := len(grid), len(grid[0])
	r, c := m.toCell(pos, rows, cols)

	label := "(" + id + ")"
	class := classNode
	switch {
	case fresh:
		class = classNewNode
	case opacity < 0.5:
		class = classDimNode
	}

	start := c - len(label)/2
	for i, ch := range label {
		col := start + i
		if col < 0 || col >= cols {
			continue
		}
		grid[r][col] = cell{ch: ch, class: class}
	}
}

// renderRow styles contiguous runs of same-class cells together.
func renderRow(row []cell) string {
	var b strings.Builder
	var run strings.Builder
	runClass := classEmpty

	flush := func() {
		if run.Len() == 0 {
			return
		}
		s := run.String()
		switch runClass {
		case classEdge:
			b.WriteString(edgeStyle.Render(s))
		case classNode:
			b.WriteString(nodeStyle.Render(s))
		case classNewNode:
			b.WriteString(newNodeStyle.Render(s))
		case classDimNode:
			b.WriteString(dimNodeStyle.Render(s))
		default:
			b.WriteString(s)
		}
		run.Reset()
	}

	for _, c := range row {
		if c.class != runClass {
			flush()
			runClass = c.class
		}
		if c.ch == 0 {
			run.WriteByte(' ')
		} else {
			run.WriteRune(c.ch)
		}
	}
	flush()
	return b.String()
}

func (m demoModel) statusLine(snap choreo.Snapshot) string {
	streaming := "paused"
	if snap.Streaming {
		streaming = "streaming"
	}
	status := fmt.Sprintf(" %s | %s | %d nodes, %d edges ",
		phaseStyle.Render(snap.Phase), streaming, len(snap.Nodes), len(snap.Edges))
	help := statusStyle.Render("space: trigger · s: toggle streaming · q: quit")
	return status + help
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func newDemoCmd() *cobra.Command {
	var (
		cfgPath  string
		modeName string
		seedFile string
		seed     uint64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Animate the choreographed graph in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			anim := newTweenAnimator()
			engine, cfg, err := newEngine(cfgPath, modeName, seedFile, seed, logger,
				choreo.WithAnimator(anim))
			if err != nil {
				return err
			}

			model := demoModel{
				engine:  engine,
				anim:    anim,
				canvasW: cfg.Canvas.Width,
				canvasH: cfg.Canvas.Height,
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			engine.StopStreaming()
			return err
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "nodeflow.toml", "path to optional TOML config")
	cmd.Flags().StringVar(&modeName, "mode", "streaming", "choreography mode (randomize or streaming)")
	cmd.Flags().StringVar(&seedFile, "seed-file", "", "JSON graph to seed the topology")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 uses the config seed)")

	return cmd
}
