package route

import "github.com/matzehuels/diagramkit/pkg/geom"

// Connector is a straight line between two anchors.
type Connector struct {
	From     geom.Point `json:"from"`
	To       geom.Point `json:"to"`
	Label    string     `json:"label,omitempty"`
	LabelPos geom.Point `json:"label_pos"`
	Directed bool       `json:"directed,omitempty"`
}

// HasLabel reports whether the connector carries a label.
func (c Connector) HasLabel() bool { return c.Label != "" }

// Route joins two anchor boxes center to center, clipped at both
// boundaries. It returns false when the centers coincide, which
// includes self-loops; no connector is drawable then.
func Route(from, to geom.Box, label string) (Connector, bool) {
	fc, tc := from.Center(), to.Center()
	start, ok := from.Clip(tc)
	if !ok {
		return Connector{}, false
	}
	end, ok := to.Clip(fc)
	if !ok {
		return Connector{}, false
	}
	return Connector{
		From:     start,
		To:       end,
		Label:    label,
		LabelPos: geom.Midpoint(fc, tc),
	}, true
}

// Anchor is a step marker's center and half-width.
type Anchor struct {
	Center    geom.Point
	HalfWidth float64
}

// Right returns the middle of the anchor's right edge.
func (a Anchor) Right() geom.Point { return a.Center.Add(a.HalfWidth, 0) }

// Left returns the middle of the anchor's left edge.
func (a Anchor) Left() geom.Point { return a.Center.Add(-a.HalfWidth, 0) }

// BetweenSteps returns a directed arrow from a's right edge to b's left
// edge. The arrow starts on a's row and lands on b's row.
func BetweenSteps(a, b Anchor) Connector {
	from, to := a.Right(), b.Left()
	return Connector{
		From:     from,
		To:       to,
		LabelPos: geom.Midpoint(from, to),
		Directed: true,
	}
}
