package swimlane

import (
	"fmt"
	"math"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/legend"
	"github.com/matzehuels/diagramkit/pkg/route"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Marker half extents in layout units.
const (
	RectHalfWidth     = 0.35
	RectHalfHeight    = 0.18
	DiamondHalfWidth  = 0.25
	DiamondHalfHeight = 0.2
)

// BandHalfHeight is half the height of a lane band.
const BandHalfHeight = 0.45

// Config tunes the sequencer.
type Config struct {
	Theme    style.Theme
	Resolver style.Resolver // lane colors, keyed by actor

	// Margin extends lane bands past the outermost steps.
	Margin float64
	// CharWidth is the badge width per display cell, in layout units.
	CharWidth float64
}

// DefaultConfig returns the brand theme with its own palette.
func DefaultConfig() Config {
	th := style.Brand()
	return Config{Theme: th, Resolver: th.Palette(), Margin: 1, CharWidth: 0.1}
}

// Sequencer emits lane and flow ops for one model.
type Sequencer struct {
	cfg   Config
	lanes []diagram.Lane
	rows  map[string]float64
}

// New creates a sequencer over the given lanes. Zero config fields fall
// back to [DefaultConfig].
func New(lanes []diagram.Lane, cfg Config) *Sequencer {
	def := DefaultConfig()
	if cfg.Resolver == nil {
		cfg.Resolver = def.Resolver
	}
	if cfg.Theme.Name == "" {
		cfg.Theme = def.Theme
	}
	if cfg.Margin <= 0 {
		cfg.Margin = def.Margin
	}
	if cfg.CharWidth <= 0 {
		cfg.CharWidth = def.CharWidth
	}
	rows := make(map[string]float64, len(lanes))
	for _, l := range lanes {
		rows[l.Actor] = float64(l.Row)
	}
	return &Sequencer{cfg: cfg, lanes: lanes, rows: rows}
}

// Row returns the vertical position of an actor's lane.
func (s *Sequencer) Row(actor string) (float64, bool) {
	y, ok := s.rows[actor]
	return y, ok
}

// LaneStyle returns the resolved style of an actor's lane.
func (s *Sequencer) LaneStyle(actor string) style.Style {
	return s.cfg.Resolver.Resolve(actor)
}

// Extent returns the horizontal span covered by lane bands.
func (s *Sequencer) Extent(flows []diagram.Flow) (left, right float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, f := range flows {
		for _, st := range f.Steps {
			lo = math.Min(lo, st.X)
			hi = math.Max(hi, st.X)
		}
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 0
	}
	return lo - s.cfg.Margin, hi + s.cfg.Margin
}

// Bands emits one background band and one label badge per lane.
func (s *Sequencer) Bands(flows []diagram.Flow) []scene.Op {
	left, right := s.Extent(flows)
	ops := make([]scene.Op, 0, 3*len(s.lanes))
	for _, l := range s.lanes {
		y := float64(l.Row)
		ls := s.LaneStyle(l.Actor)

		band := s.cfg.Theme.Band
		band.Fill, band.Stroke = ls.Fill, ls.Fill
		ops = append(ops, scene.Rect(scene.LayerBackground, scene.RoleLane, l.Actor,
			geom.Box{Left: left, Right: right, Bottom: y - BandHalfHeight, Top: y + BandHalfHeight}, band))

		badge := s.cfg.Theme.LaneLabel
		badge.Stroke, badge.Text = ls.Fill, ls.Fill
		ops = append(ops, s.badge(scene.RoleLaneLabel, l.Actor, geom.Pt(left+s.cfg.Margin/2, y), l.Actor, badge)...)
	}
	return ops
}

// Legend returns the legend entries for the lanes, in lane order.
func (s *Sequencer) Legend() []legend.Entry {
	out := make([]legend.Entry, 0, len(s.lanes))
	for _, l := range s.lanes {
		out = append(out, legend.Entry{Category: l.Actor, Label: l.Actor, Swatch: legend.SwatchBox, Style: s.LaneStyle(l.Actor)})
	}
	return out
}

type state int

const (
	stateInit state = iota
	stateMarker
	stateArrow
	stateDone
)

// Sequence emits the title badge, markers, step text and arrows of one
// flow. ref prefixes op refs. A step whose actor has no lane fails with
// MISSING_LANE_FOR_ACTOR and no ops.
func (s *Sequencer) Sequence(ref string, f diagram.Flow) ([]scene.Op, error) {
	anchors := make([]route.Anchor, len(f.Steps))
	for i, st := range f.Steps {
		a, err := s.Anchor(st)
		if err != nil {
			return nil, errors.NewRef(errors.ErrCodeMissingLaneForActor, st.Actor,
				"flow %q step %d (%q): no lane for actor %q", f.Title, i, st.Text, st.Actor)
		}
		anchors[i] = a
	}

	var ops []scene.Op
	if f.Title != "" {
		ops = append(ops, s.badge(scene.RoleFlowTitle, ref, f.TitleAnchor, f.Title, s.cfg.Theme.FlowTitle)...)
	}

	i, st := 0, stateInit
	for st != stateDone {
		switch st {
		case stateInit:
			st = stateMarker
			if len(f.Steps) == 0 {
				st = stateDone
			}
		case stateMarker:
			ops = append(ops, s.marker(stepRef(ref, i), f.Steps[i], anchors[i])...)
			st = stateArrow
			if i == len(f.Steps)-1 {
				st = stateDone
			}
		case stateArrow:
			c := route.BetweenSteps(anchors[i], anchors[i+1])
			ops = append(ops, scene.Line(scene.LayerConnector, scene.RoleArrow,
				fmt.Sprintf("%s>%d", stepRef(ref, i), i+1), c.From, c.To, true, s.cfg.Theme.Arrow))
			i++
			st = stateMarker
		}
	}
	return ops, nil
}

// Anchor returns the marker center and half-width of a step.
func (s *Sequencer) Anchor(st diagram.Step) (route.Anchor, error) {
	y, ok := s.rows[st.Actor]
	if !ok {
		return route.Anchor{}, fmt.Errorf("no lane for actor %q", st.Actor)
	}
	hw := RectHalfWidth
	if st.Decision {
		hw = DiamondHalfWidth
	}
	return route.Anchor{Center: geom.Pt(st.X, y), HalfWidth: hw}, nil
}

func (s *Sequencer) marker(ref string, st diagram.Step, a route.Anchor) []scene.Op {
	ms := s.cfg.Theme.Marker
	ms.Fill = s.LaneStyle(st.Actor).Fill

	var shape scene.Op
	if st.Decision {
		shape = scene.Polygon(scene.LayerShape, scene.RoleStep, ref,
			legend.Diamond(a.Center, DiamondHalfWidth, DiamondHalfHeight), ms)
	} else {
		shape = scene.Rect(scene.LayerShape, scene.RoleStep, ref,
			geom.BoxAround(a.Center, 2*RectHalfWidth, 2*RectHalfHeight), ms)
	}
	text := scene.Text(scene.LayerText, scene.RoleStepText, ref, a.Center, st.Text, scene.AnchorMiddle, s.cfg.Theme.StepText)
	return []scene.Op{shape, text}
}

// badge is a text label on an opaque background box sized to the text.
func (s *Sequencer) badge(role scene.Role, ref string, c geom.Point, text string, st style.Style) []scene.Op {
	w := float64(label.Width(text))*s.cfg.CharWidth + 0.2
	bg := style.Style{Fill: st.Fill, Stroke: st.Stroke, StrokeWidth: st.StrokeWidth, Opacity: st.Opacity}
	txt := style.Style{Text: st.Text, FontSize: st.FontSize, FontFamily: st.FontFamily}
	return []scene.Op{
		scene.Rect(scene.LayerShape, role, ref, geom.BoxAround(c, w, 0.3), bg),
		scene.Text(scene.LayerText, role, ref, c, text, scene.AnchorMiddle, txt),
	}
}

func stepRef(flow string, i int) string { return fmt.Sprintf("%s/%d", flow, i) }
