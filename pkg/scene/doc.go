// Package scene defines the backend-agnostic output of composition.
//
// A [Scene] is an ordered list of [Op] draw operations, each with
// absolute geometry in layout units and a fully resolved style. No
// rendering backend types appear here; sinks in pkg/render replay the
// ops in order.
//
// # Layers
//
// Ordering is by dependency, not by emission time. Every op belongs to a
// [Layer] and [Assemble] sorts stably by layer:
//
//	LayerBackground < LayerConnector < LayerShape < LayerText < LayerLegend
//
// so text is never hidden under a shape drawn after it and connectors
// never cover markers. Within a layer, emission order is kept.
package scene
