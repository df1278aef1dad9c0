// Package compose is the entry point of the diagram engine.
//
// [Compose] turns a [diagram.Model] into a [scene.Scene]:
//
//  1. Validate shape and referential integrity. Failures return an
//     *errors.Error naming the offending id and no scene.
//  2. Place node anchor boxes and route edge connectors between them.
//  3. Sequence swimlane flows: lane bands, markers, arrows.
//  4. Collect legend entries, deduplicate in first-seen order.
//  5. Assemble all ops into fixed z-order.
//
// Composition is synchronous, pure and deterministic. Identical input
// yields a byte-identical scene encoding, and nothing is retained
// between calls, so callers may compose many models in parallel.
//
// Non-fatal conditions are reported in [scene.Scene.Warnings]:
// STYLE_CATEGORY_UNRESOLVED when a category falls back to the default
// style, LABEL_OVERFLOW when an attribute was cut to the label budget,
// and SELF_LOOP when an edge has no drawable connector.
package compose
