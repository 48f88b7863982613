// Package pkg provides the core libraries for nodeflow graph choreography.
//
// # Overview
//
// nodeflow keeps a small directed graph in constant, legible motion: the
// topology is periodically mutated and every change is choreographed as a
// timed retract / mutate / extend cycle so edges are never drawn against
// stale coordinates. The pkg directory is organized as:
//
//  1. [geom] - Points and the fixed input/output anchor offsets
//  2. [core/graph] - Graph aggregate, adjacency, constraint checks, validation
//  3. [core/layout] - Tree (leveled BFS) and scatter (rejection sampling) placement
//  4. [core/mutate] - Topology planning: survivors, fresh labels, sampled edges
//  5. [core/transition] - Per-edge transition state machine emitting animation specs
//  6. [choreo] - The phase sequencer, modes, streaming loop, and snapshots
//  7. [graphio] - JSON import/export of topologies
//  8. [export] - DOT/SVG/PNG rendering of a snapshot via Graphviz
//  9. [config] - Optional TOML configuration over the built-in mode defaults
//
// # Architecture
//
// The typical data flow through one choreography cycle:
//
//	TriggerUpdate
//	     ↓
//	[core/mutate] plan next topology (capture collapse targets first)
//	     ↓
//	phase 1: [core/transition] retract every edge, fade doomed nodes
//	     ↓
//	phase 2: atomic topology swap, removed edges collapse as transients
//	     ↓
//	phase 3: extend edges to the new anchors, fade new nodes in
//	     ↓
//	settle: clear emphasis, run queued trigger or reschedule streaming
//
// # Quick Start
//
// Run a streaming choreographer and read coherent snapshots:
//
//	engine := choreo.New(choreo.Streaming())
//	engine.StartStreaming()
//	snap := engine.Snapshot() // renderable at any instant
//
// [geom]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/geom
// [core/graph]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/core/graph
// [core/layout]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/core/layout
// [core/mutate]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/core/mutate
// [core/transition]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/core/transition
// [choreo]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/choreo
// [graphio]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/graphio
// [export]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/export
// [config]: https://pkg.go.dev/github.com/nodeflow/nodeflow/pkg/config
package pkg
