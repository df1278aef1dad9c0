package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/render"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Defaults for SVG output.
const (
	DefaultPixelsPerUnit = 80.0
	DefaultPadding       = 0.6
	DefaultFontFamily    = "Arial, Helvetica, sans-serif"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	padding    float64
	background string
	fontFamily string

	buf    bytes.Buffer
	origin geom.Point // layout point mapped to pixel (0,0)
}

// WithPixelsPerUnit sets the layout-unit to pixel scale.
func WithPixelsPerUnit(px float64) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.scale = px
		}
	}
}

// WithPadding sets the margin around the scene, in layout units.
func WithPadding(units float64) SVGOption {
	return func(r *svgRenderer) {
		if units >= 0 {
			r.padding = units
		}
	}
}

// WithBackground sets the page background color. Empty means transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithFontFamily sets the fallback font for text without one.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.fontFamily = f } }

// RenderSVG renders the scene as a standalone SVG document.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) ([]byte, error) {
	r := &svgRenderer{scale: DefaultPixelsPerUnit, padding: DefaultPadding, background: "#FFFFFF", fontFamily: DefaultFontFamily}
	for _, opt := range opts {
		opt(r)
	}

	bounds := r.contentBounds(sc).Expand(r.padding, r.padding)
	r.origin = geom.Pt(bounds.Left, bounds.Top)
	w, h := bounds.Width()*r.scale, bounds.Height()*r.scale

	fmt.Fprintf(&r.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	if sc.Title != "" {
		fmt.Fprintf(&r.buf, "  <title>%s</title>\n", escapeXML(sc.Title))
	}
	if r.background != "" {
		fmt.Fprintf(&r.buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, escapeXML(r.background))
	}
	if err := render.Replay(sc, r); err != nil {
		return nil, err
	}
	r.buf.WriteString("</svg>\n")
	return r.buf.Bytes(), nil
}

// contentBounds widens the scene bounds by estimated text extents.
func (r *svgRenderer) contentBounds(sc *scene.Scene) geom.Box {
	b := sc.Bounds
	for _, op := range sc.Ops {
		if op.Kind != scene.KindText || op.Pos == nil {
			continue
		}
		w := r.textWidth(op.Text, op.Style) / r.scale
		h := fontSize(op.Style) / r.scale
		var left float64
		switch op.Anchor {
		case scene.AnchorStart:
			left = op.Pos.X
		case scene.AnchorEnd:
			left = op.Pos.X - w
		default:
			left = op.Pos.X - w/2
		}
		b = b.Union(geom.Box{Left: left, Right: left + w, Bottom: op.Pos.Y - h/2, Top: op.Pos.Y + h/2})
	}
	return b
}

func (r *svgRenderer) textWidth(s string, st style.Style) float64 {
	return float64(label.Width(s)) * fontSize(st) * 0.6
}

func (r *svgRenderer) px(p geom.Point) (float64, float64) {
	return (p.X - r.origin.X) * r.scale, (r.origin.Y - p.Y) * r.scale
}

// DrawBox implements render.Backend.
func (r *svgRenderer) DrawBox(b geom.Box, s style.Style) {
	x, y := r.px(geom.Pt(b.Left, b.Top))
	fmt.Fprintf(&r.buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"%s/>`+"\n",
		x, y, b.Width()*r.scale, b.Height()*r.scale, paint(s))
}

// DrawPolygon implements render.Backend.
func (r *svgRenderer) DrawPolygon(pts []geom.Point, s style.Style) {
	fmt.Fprintf(&r.buf, `  <polygon points="%s"%s/>`+"\n", r.pointList(pts), paint(s))
}

// DrawLine implements render.Backend.
func (r *svgRenderer) DrawLine(from, to geom.Point, s style.Style, arrow bool) {
	x1, y1 := r.px(from)
	x2, y2 := r.px(to)
	sw := s.StrokeWidth
	if sw <= 0 {
		sw = 1
	}
	stroke := attr(s.Stroke, "#000000")

	if !arrow {
		fmt.Fprintf(&r.buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
			x1, y1, x2, y2, stroke, sw, opacity(s))
		return
	}

	dx, dy := x2-x1, y2-y1
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	ux, uy := dx/n, dy/n
	head := math.Max(8, 3*sw)
	half := head * 0.45
	bx, by := x2-ux*head, y2-uy*head
	fmt.Fprintf(&r.buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		x1, y1, x2-ux*head*0.8, y2-uy*head*0.8, stroke, sw, opacity(s))
	fmt.Fprintf(&r.buf, `  <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s"%s/>`+"\n",
		x2, y2, bx-uy*half, by+ux*half, bx+uy*half, by-ux*half, stroke, opacity(s))
}

// DrawText implements render.Backend.
func (r *svgRenderer) DrawText(t render.Text, s style.Style) {
	x, y := r.px(t.Pos)
	anchor := t.Anchor
	if anchor == "" {
		anchor = scene.AnchorMiddle
	}
	var extra strings.Builder
	if t.Bold {
		extra.WriteString(` font-weight="bold"`)
	}
	if t.Italic {
		extra.WriteString(` font-style="italic"`)
	}
	fmt.Fprintf(&r.buf, `  <text x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s"%s>%s</text>`+"\n",
		x, y, attr(string(anchor), ""), attr(s.FontFamily, r.fontFamily), fontSize(s), attr(s.Text, "#000000"), extra.String(), escapeXML(t.Value))
}

func (r *svgRenderer) pointList(pts []geom.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		x, y := r.px(p)
		parts[i] = fmt.Sprintf("%.2f,%.2f", x, y)
	}
	return strings.Join(parts, " ")
}

func paint(s style.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, ` fill="%s"`, attr(s.Fill, "none"))
	if s.Stroke != "" {
		sw := s.StrokeWidth
		if sw <= 0 {
			sw = 1
		}
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.1f"`, attr(s.Stroke, ""), sw)
	}
	b.WriteString(opacity(s))
	return b.String()
}

func opacity(s style.Style) string {
	if s.Opacity > 0 && s.Opacity < 1 {
		return fmt.Sprintf(` opacity="%.2f"`, s.Opacity)
	}
	return ""
}

func fontSize(s style.Style) float64 {
	if s.FontSize > 0 {
		return s.FontSize
	}
	return 11
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// attr returns v, or def when v is empty, escaped for an attribute value.
func attr(v, def string) string { return escapeXML(or(v, def)) }

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var _ render.Backend = (*svgRenderer)(nil)
