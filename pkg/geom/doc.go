// Package geom provides the geometry primitives shared by the diagram
// composition packages.
//
// All coordinates are in layout units: the same units callers use when
// they position nodes and steps in a model. The y axis points up, so a
// larger Y is higher on the page. Sinks that render to a y-down surface
// (SVG, PNG) flip the axis themselves.
//
// The central operation is [Box.Clip], which intersects the ray from a
// box's center toward an arbitrary point with the box boundary. Connector
// routing uses it to land connector endpoints exactly on node edges.
package geom
