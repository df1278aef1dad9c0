package compose

import (
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/layout"
	"github.com/matzehuels/diagramkit/pkg/legend"
	"github.com/matzehuels/diagramkit/pkg/route"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
	"github.com/matzehuels/diagramkit/pkg/swimlane"
)

// DecisionLegendLabel is the legend label of the decision marker swatch.
const DecisionLegendLabel = "Decision Point"

// Compose validates m and builds its scene.
func Compose(m *diagram.Model, opts ...Option) (*scene.Scene, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "nil model")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.formatter == nil {
		o.formatter = label.New()
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	c := &composer{
		model:   m,
		opts:    o,
		theme:   o.theme.Overlay(style.Theme{Categories: m.Palette}),
		checked: make(map[string]bool),
	}
	c.palette = c.theme.Palette()

	c.nodes()
	c.edges()
	if err := c.swimlanes(); err != nil {
		return nil, err
	}

	content := scene.Bounds(c.ops)
	c.title(content)
	if o.legend {
		c.legend(content)
	}
	return scene.Assemble(m.Title, c.ops, c.warnings), nil
}

type composer struct {
	model    *diagram.Model
	opts     options
	theme    style.Theme
	palette  *style.Palette
	boxes    map[string]geom.Box
	ops      []scene.Op
	warnings []errors.Warning
	checked  map[string]bool
}

func (c *composer) emit(ops ...scene.Op) { c.ops = append(c.ops, ops...) }

func (c *composer) warn(code errors.Code, ref, format string, args ...any) {
	c.warnings = append(c.warnings, errors.Warn(code, ref, format, args...))
}

// resolve looks up a category, warning once per unknown category.
func (c *composer) resolve(category string) style.Style {
	s, ok := c.palette.Lookup(category)
	if !ok && category != "" && !c.checked[category] {
		c.warn(errors.ErrCodeStyleCategoryUnresolved, category, "category %q has no style, using default", category)
	}
	c.checked[category] = true
	return s
}

func (c *composer) nodes() {
	c.boxes = layout.Place(c.model.Nodes, c.opts.layout)
	for _, n := range c.model.Nodes {
		box := c.boxes[n.ID]
		st := c.resolve(n.Category)
		c.emit(scene.Rect(scene.LayerShape, scene.RoleNode, n.ID, box, st))

		center := box.Center()
		if len(n.Attributes) == 0 {
			c.emit(scene.Text(scene.LayerText, scene.RoleHeader, n.ID, center, n.ID, scene.AnchorMiddle, c.theme.Header))
		} else {
			header := geom.Pt(center.X, center.Y+headerOffset(box))
			c.emit(scene.Text(scene.LayerText, scene.RoleHeader, n.ID, header, n.ID, scene.AnchorMiddle, c.theme.Header))
			c.attributes(n, center)
		}
	}
}

// headerOffset places the header in the upper part of the box: 0.35
// above center for the stock 1.2 high box.
func headerOffset(b geom.Box) float64 { return b.Height()/2 - 0.25 }

// attributes lays the fragments out as a block centered just below the
// node center, one row per attribute.
func (c *composer) attributes(n diagram.Node, center geom.Point) {
	frags := c.opts.formatter.Format(n.Attributes)
	lh := c.opts.lineHeight
	top := center.Y - 0.1 + float64(len(frags)-1)*lh/2
	for i, f := range frags {
		op := scene.Text(scene.LayerText, scene.RoleAttribute, n.ID,
			geom.Pt(center.X, top-float64(i)*lh), f.Text, scene.AnchorMiddle, c.theme.Attribute)
		op.Bold, op.Italic = f.Bold(), f.Italic()
		c.emit(op)
		if f.Overflow {
			c.warn(errors.ErrCodeLabelOverflow, n.ID, "node %q attribute %q shortened to %q", n.ID, f.Source, f.Text)
		}
	}
}

func (c *composer) edges() {
	for _, e := range c.model.Edges {
		ref := e.From + "->" + e.To
		if e.SelfLoop() {
			c.warn(errors.ErrCodeSelfLoop, e.From, "edge %s is a self-loop, no connector drawn", ref)
			continue
		}
		conn, ok := route.Route(c.boxes[e.From], c.boxes[e.To], e.Label)
		if !ok {
			c.warn(errors.ErrCodeSelfLoop, e.From, "edge %s joins coincident nodes, no connector drawn", ref)
			continue
		}
		c.emit(scene.Line(scene.LayerConnector, scene.RoleEdge, ref, conn.From, conn.To, conn.Directed, c.theme.Connector))
		if conn.HasLabel() {
			c.emit(scene.Text(scene.LayerText, scene.RoleEdgeLabel, ref, conn.LabelPos, conn.Label, scene.AnchorMiddle, c.theme.EdgeLabel))
		}
	}
}

func (c *composer) swimlanes() error {
	if len(c.model.Lanes) == 0 {
		return nil
	}
	for _, l := range c.model.Lanes {
		c.resolve(l.Actor)
	}
	seq := swimlane.New(c.model.Lanes, swimlane.Config{
		Theme:    c.theme,
		Resolver: c.palette,
		Margin:   c.opts.laneMargin,
	})
	c.emit(seq.Bands(c.model.Flows)...)
	for i, f := range c.model.Flows {
		ops, err := seq.Sequence(fmt.Sprintf("flow%d", i), f)
		if err != nil {
			return err
		}
		c.emit(ops...)
	}
	return nil
}

func (c *composer) title(content geom.Box) {
	if c.model.Title == "" {
		return
	}
	pos := geom.Pt(content.CenterX(), content.Top+0.6)
	c.emit(scene.Text(scene.LayerText, scene.RoleTitle, "", pos, c.model.Title, scene.AnchorMiddle, c.theme.Title))
}

// legend places the deduplicated entries to the right of the content.
func (c *composer) legend(content geom.Box) {
	entries := legendEntries(c.model, c.theme, c.palette)
	cfg := legend.DefaultConfig(geom.Pt(content.Right+0.5, content.Top))
	cfg.Title = c.opts.legendTitle
	cfg.TextStyle = c.theme.LegendText
	c.emit(legend.Layout(entries, cfg)...)
}

// Legend returns the deduplicated legend entries m would show, in
// display order. It does not validate m.
func Legend(m *diagram.Model, opts ...Option) []legend.Entry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	th := o.theme.Overlay(style.Theme{Categories: m.Palette})
	return legendEntries(m, th, th.Palette())
}

// legendEntries lists node categories in layout grouping order, then
// lane actors, then the decision swatch.
func legendEntries(m *diagram.Model, th style.Theme, p *style.Palette) []legend.Entry {
	var entries []legend.Entry
	for _, g := range layout.GroupByCategory(m.Nodes) {
		if g.Category == "" {
			continue
		}
		entries = append(entries, legend.Entry{Category: g.Category, Label: g.Category, Swatch: legend.SwatchBox, Style: p.Resolve(g.Category)})
	}
	if len(m.Lanes) > 0 {
		entries = append(entries, swimlane.New(m.Lanes, swimlane.Config{Theme: th, Resolver: p}).Legend()...)
		if m.HasDecision() {
			entries = append(entries, legend.Entry{Category: DecisionLegendLabel, Label: DecisionLegendLabel, Swatch: legend.SwatchDiamond, Style: th.Decision})
		}
	}
	return legend.Dedupe(entries)
}
