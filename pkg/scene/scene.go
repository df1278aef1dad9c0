package scene

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Kind identifies the primitive an op draws.
type Kind string

const (
	KindRect    Kind = "rect"
	KindPolygon Kind = "polygon"
	KindLine    Kind = "line"
	KindText    Kind = "text"
)

// Anchor is the horizontal text anchor.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Role names what an op depicts. Backends may ignore it.
type Role string

const (
	RoleLane      Role = "lane"
	RoleLaneLabel Role = "lane_label"
	RoleEdge      Role = "edge"
	RoleEdgeLabel Role = "edge_label"
	RoleArrow     Role = "arrow"
	RoleNode      Role = "node"
	RoleHeader    Role = "header"
	RoleAttribute Role = "attribute"
	RoleStep      Role = "step"
	RoleStepText  Role = "step_text"
	RoleFlowTitle Role = "flow_title"
	RoleTitle     Role = "title"
	RoleLegend    Role = "legend"
)

// Layer is the z-order bucket of an op. Lower layers draw first.
type Layer int

const (
	LayerBackground Layer = iota
	LayerConnector
	LayerShape
	LayerText
	LayerLegend
)

var layerNames = [...]string{"background", "connector", "shape", "text", "legend"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// MarshalText encodes the layer by name.
func (l Layer) MarshalText() ([]byte, error) {
	if l < 0 || int(l) >= len(layerNames) {
		return nil, fmt.Errorf("invalid layer %d", int(l))
	}
	return []byte(layerNames[l]), nil
}

// UnmarshalText decodes a layer name.
func (l *Layer) UnmarshalText(b []byte) error {
	i := slices.Index(layerNames[:], string(b))
	if i < 0 {
		return fmt.Errorf("unknown layer %q", b)
	}
	*l = Layer(i)
	return nil
}

// Op is one draw operation.
//
// Geometry depends on Kind: rect uses Box; polygon uses Points as a
// closed ring; line uses Points[0] to Points[1] with an arrow head at
// Points[1] when Arrow is set; text uses Pos and Anchor.
type Op struct {
	Kind   Kind         `json:"kind"`
	Layer  Layer        `json:"layer"`
	Role   Role         `json:"role,omitempty"`
	Ref    string       `json:"ref,omitempty"`
	Box    *geom.Box    `json:"box,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
	Pos    *geom.Point  `json:"pos,omitempty"`
	Text   string       `json:"text,omitempty"`
	Anchor Anchor       `json:"anchor,omitempty"`
	Bold   bool         `json:"bold,omitempty"`
	Italic bool         `json:"italic,omitempty"`
	Arrow  bool         `json:"arrow,omitempty"`
	Style  style.Style  `json:"style"`
}

// Rect builds a rectangle op.
func Rect(layer Layer, role Role, ref string, b geom.Box, s style.Style) Op {
	return Op{Kind: KindRect, Layer: layer, Role: role, Ref: ref, Box: &b, Style: s}
}

// Polygon builds a closed polygon op.
func Polygon(layer Layer, role Role, ref string, pts []geom.Point, s style.Style) Op {
	return Op{Kind: KindPolygon, Layer: layer, Role: role, Ref: ref, Points: slices.Clone(pts), Style: s}
}

// Line builds a line op, with an arrow head at to when arrow is set.
func Line(layer Layer, role Role, ref string, from, to geom.Point, arrow bool, s style.Style) Op {
	return Op{Kind: KindLine, Layer: layer, Role: role, Ref: ref, Points: []geom.Point{from, to}, Arrow: arrow, Style: s}
}

// Text builds a text op.
func Text(layer Layer, role Role, ref string, pos geom.Point, text string, anchor Anchor, s style.Style) Op {
	return Op{Kind: KindText, Layer: layer, Role: role, Ref: ref, Pos: &pos, Text: text, Anchor: anchor, Style: s}
}

// Extent returns the geometric extent of the op. Text ops report their
// anchor point only.
func (o Op) Extent() (geom.Box, bool) {
	switch {
	case o.Box != nil:
		return *o.Box, true
	case len(o.Points) > 0:
		b := geom.Box{Left: o.Points[0].X, Right: o.Points[0].X, Bottom: o.Points[0].Y, Top: o.Points[0].Y}
		for _, p := range o.Points[1:] {
			b = b.Union(geom.Box{Left: p.X, Right: p.X, Bottom: p.Y, Top: p.Y})
		}
		return b, true
	case o.Pos != nil:
		return geom.Box{Left: o.Pos.X, Right: o.Pos.X, Bottom: o.Pos.Y, Top: o.Pos.Y}, true
	}
	return geom.Box{}, false
}

// Scene is the assembled, ordered draw list of one diagram.
type Scene struct {
	Title    string           `json:"title,omitempty"`
	Bounds   geom.Box         `json:"bounds"`
	Ops      []Op             `json:"ops"`
	Warnings []errors.Warning `json:"warnings,omitempty"`
}

// Assemble orders ops by layer, keeping emission order within a layer,
// and computes the scene bounds. The input slice is not modified.
func Assemble(title string, ops []Op, warnings []errors.Warning) *Scene {
	sorted := slices.Clone(ops)
	slices.SortStableFunc(sorted, func(a, b Op) int { return int(a.Layer) - int(b.Layer) })
	return &Scene{
		Title:    title,
		Bounds:   Bounds(sorted),
		Ops:      sorted,
		Warnings: slices.Clone(warnings),
	}
}

// Bounds returns the union extent of all ops.
func Bounds(ops []Op) geom.Box {
	var out geom.Box
	first := true
	for _, o := range ops {
		b, ok := o.Extent()
		if !ok {
			continue
		}
		if first {
			out, first = b, false
			continue
		}
		out = out.Union(b)
	}
	return out
}

// Count returns the number of ops with the given kind and role. An
// empty role matches any role.
func (s *Scene) Count(kind Kind, role Role) int {
	n := 0
	for _, o := range s.Ops {
		if o.Kind == kind && (role == "" || o.Role == role) {
			n++
		}
	}
	return n
}

// Filter returns the ops matching role, in scene order.
func (s *Scene) Filter(role Role) []Op {
	var out []Op
	for _, o := range s.Ops {
		if o.Role == role {
			out = append(out, o)
		}
	}
	return out
}

// JSON encodes the scene as indented JSON.
func (s *Scene) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses a scene previously produced by [Scene.JSON].
func Decode(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}
