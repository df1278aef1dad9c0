// Package render replays composed scenes onto drawing backends.
//
// # Overview
//
// The composer emits a backend-agnostic [scene.Scene]. This package
// defines the [Backend] primitives a drawing surface must provide and
// [Replay], which walks a scene in order and issues one primitive per
// op. Replay never reorders: z-order was fixed at assembly.
//
// Concrete backends live in subpackages:
//
//   - [sink]: native SVG writer, plus PNG/PDF via rsvg-convert and
//     JSON scene export
//   - [graphviz]: DOT export with pinned node positions, rendered by
//     Graphviz (entity and architecture diagrams only)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the
// external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(sc)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [sink]: github.com/matzehuels/diagramkit/pkg/render/sink
// [graphviz]: github.com/matzehuels/diagramkit/pkg/render/graphviz
package render
