// Package pkg provides the core libraries of diagramkit, a declarative
// diagram composition engine.
//
// # Overview
//
// diagramkit turns a small, pre-positioned domain description into an
// ordered, backend-agnostic scene of draw operations. Two diagram families
// are supported and may be mixed in one model:
//
//   - Entity diagrams: boxes with attribute rows (primary keys bold,
//     foreign keys italic) joined by cardinality-labelled connectors.
//     Nodes without attributes render as plain architecture boxes.
//   - Swimlane flows: actor steps placed along horizontal lanes, joined by
//     arrows, with diamond markers for decisions.
//
// Positions are supplied by the caller. There is no auto-layout.
//
// # Architecture
//
//	model file (JSON / YAML / TOML)
//	         ↓
//	    [io] decode
//	         ↓
//	    [diagram] validate
//	         ↓
//	    [compose] place → route → sequence → legend → assemble
//	         ↓
//	    [scene] ordered draw ops
//	         ↓
//	    [render/sink] SVG / PNG / PDF / JSON    [render/graphviz] DOT
//
// [pipeline] wraps compose and render with content-hash caching ([cache])
// and is shared by the CLI, the watch loop and the HTTP API.
//
// # Quick Start
//
//	m, err := io.Load("erd.yaml")
//	if err != nil {
//	    return err
//	}
//	sc, err := compose.Compose(m)
//	if err != nil {
//	    return err // UNKNOWN_NODE_REFERENCE, MISSING_LANE_FOR_ACTOR, ...
//	}
//	svg, err := sink.RenderSVG(sc)
//
// # Main Packages
//
// ## Engine
//
// [geom] - Points, boxes, midpoints and box-boundary clipping.
//
// [style] - Category to style resolution with a default fallback, built-in
// themes and TOML theme files.
//
// [label] - Attribute label formatting: emphasis, display-width budget,
// abbreviation registry.
//
// [layout] - Fixed-size node boxes and first-seen category grouping.
//
// [route] - Straight connectors clipped to box edges and step arrows.
//
// [swimlane] - Per-flow step sequencing and lane bands.
//
// [legend] - Order-preserving legend deduplication.
//
// [scene] - Draw operations and the layered scene assembler.
//
// [compose] - The single composition entry point.
//
// ## Input and Output
//
// [diagram] - The data model and its validation.
//
// [io] - Model decoding and encoding by file extension.
//
// [render] - The drawing backend contract, scene replay and SVG conversion.
//
// ## Infrastructure
//
// [pipeline] - Cached compose and render runs, batch composition.
//
// [cache] - File, Redis and null caches with content-hash keys.
//
// [storage] - Saved diagrams in memory or MongoDB.
//
// [config] - YAML configuration with environment expansion.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors and diagnostics.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// Set DIAGRAMKIT_TEST_REDIS or DIAGRAMKIT_TEST_MONGO to run the backend
// tests against live servers.
package pkg
