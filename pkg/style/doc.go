// Package style resolves semantic categories to visual styles.
//
// A category is any string a model uses to group things: an entity type
// ("Academic", "Institution"), an actor role ("Student", "System") or a
// component tier ("Frontend", "Core"). The [Resolver] contract maps a
// category to a [Style] and never fails: a category missing from the
// mapping resolves to the designated default style. Callers that want to
// report misses use [Palette.Lookup].
//
// Palettes are closed maps built from a [Theme]. Themes are either
// built in ([Brand], [Mono]) or decoded from TOML:
//
//	name = "docs"
//
//	[default]
//	fill = "#999999"
//	text = "#FFFFFF"
//
//	[categories.Academic]
//	fill = "#2E8B57"
package style
