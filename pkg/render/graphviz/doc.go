// Package graphviz exports entity and architecture diagrams as Graphviz DOT.
//
// Node positions are pinned ("x,y!") and the neato engine is used, so
// Graphviz draws the caller's layout rather than computing its own.
// Node labels are HTML-like tables: the node id in bold followed by its
// attributes, with primary keys bold and foreign keys italic. Fill colors
// come from the same style palette the native renderer uses.
//
// Swimlane lanes and flows have no DOT equivalent and are skipped.
//
//	dot := graphviz.ToDOT(model, graphviz.Options{})
//	svg, err := graphviz.RenderSVG(ctx, dot)
package graphviz
