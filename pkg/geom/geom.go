package geom

import "math"

// Eps is the tolerance used for boundary tests.
const Eps = 1e-9

// Point is a position in layout units.
type Point struct {
	X float64 `json:"x" bson:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" bson:"y" yaml:"y" toml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Box is an axis-aligned rectangle.
type Box struct {
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
	Bottom float64 `json:"bottom" bson:"bottom"`
	Top    float64 `json:"top" bson:"top"`
}

// BoxAround returns the box of the given width and height centered on c.
func BoxAround(c Point, width, height float64) Box {
	return Box{
		Left:   c.X - width/2,
		Right:  c.X + width/2,
		Bottom: c.Y - height/2,
		Top:    c.Y + height/2,
	}
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Top - b.Bottom }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return (b.Bottom + b.Top) / 2 }

// Center returns the center point of the box.
func (b Box) Center() Point { return Point{X: b.CenterX(), Y: b.CenterY()} }

// Contains reports whether p lies inside or on the boundary of b.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Left-Eps && p.X <= b.Right+Eps &&
		p.Y >= b.Bottom-Eps && p.Y <= b.Top+Eps
}

// OnBoundary reports whether p lies on the edge of b, within Eps.
func (b Box) OnBoundary(p Point) bool {
	if !b.Contains(p) {
		return false
	}
	return near(p.X, b.Left) || near(p.X, b.Right) ||
		near(p.Y, b.Bottom) || near(p.Y, b.Top)
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Left:   math.Min(b.Left, o.Left),
		Right:  math.Max(b.Right, o.Right),
		Bottom: math.Min(b.Bottom, o.Bottom),
		Top:    math.Max(b.Top, o.Top),
	}
}

// Expand returns b grown by dx on both horizontal sides and dy on both
// vertical sides.
func (b Box) Expand(dx, dy float64) Box {
	return Box{Left: b.Left - dx, Right: b.Right + dx, Bottom: b.Bottom - dy, Top: b.Top + dy}
}

// Clip returns the point where the ray from the center of b toward p
// crosses the boundary of b. The second result is false when p coincides
// with the center, in which case the direction is undefined.
//
// Clip does not require p to be outside b; for an interior p the ray is
// extended until it meets the boundary.
func (b Box) Clip(p Point) (Point, bool) {
	c := b.Center()
	dx, dy := p.X-c.X, p.Y-c.Y
	if math.Abs(dx) < Eps && math.Abs(dy) < Eps {
		return c, false
	}

	hw, hh := b.Width()/2, b.Height()/2
	t := math.Inf(1)
	if math.Abs(dx) >= Eps {
		t = hw / math.Abs(dx)
	}
	if math.Abs(dy) >= Eps {
		t = math.Min(t, hh/math.Abs(dy))
	}

	out := Point{X: c.X + t*dx, Y: c.Y + t*dy}
	// Snap the limiting coordinate onto the edge to absorb rounding.
	switch {
	case math.Abs(dx) >= Eps && near(t, hw/math.Abs(dx)):
		out.X = b.Left
		if dx > 0 {
			out.X = b.Right
		}
	case math.Abs(dy) >= Eps:
		out.Y = b.Bottom
		if dy > 0 {
			out.Y = b.Top
		}
	}
	return out, true
}

func near(a, b float64) bool { return math.Abs(a-b) <= Eps }
