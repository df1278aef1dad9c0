// Package sink writes composed scenes to output formats.
//
// # Overview
//
// A "sink" turns a [scene.Scene] into bytes. This package provides:
//
//   - SVG: native writer implementing [render.Backend]
//   - PNG: raster output via rsvg-convert
//   - PDF: print output via rsvg-convert
//   - JSON: the scene itself, for external renderers and caching
//
// # SVG Output
//
// [RenderSVG] maps layout units to pixels (80 px per unit by default)
// and flips the y axis so that larger y values appear higher on the
// page, matching how models are authored. Primary-key attributes render
// bold, foreign-key attributes italic. Arrow heads are drawn as filled
// triangles so output does not depend on SVG marker support.
//
//	svg := sink.RenderSVG(sc, sink.WithPixelsPerUnit(100))
//
// # Raster Output
//
// [RenderPNG] and [RenderPDF] render SVG first and convert it.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
//
// # Writing Files
//
// [Write] dispatches on a format name and [WriteFile] infers the format
// from the file extension.
package sink
