// Package legend builds category legends from composed diagrams.
//
// Producers emit one [Entry] per styled thing they draw, duplicates
// included. [Dedupe] keeps the first entry per category in emission order;
// [Layout] turns the survivors into draw ops.
package legend

import (
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Swatch is the legend marker shape.
type Swatch string

const (
	SwatchBox     Swatch = "box"
	SwatchDiamond Swatch = "diamond"
)

// Entry is one legend line.
type Entry struct {
	Category string      `json:"category"`
	Label    string      `json:"label"`
	Swatch   Swatch      `json:"swatch"`
	Style    style.Style `json:"style"`
}

// Dedupe returns entries with each category shown once, keeping the
// first occurrence and its swatch. The input is not modified.
func Dedupe(entries []Entry) []Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		k := e.Category
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Config positions the legend.
type Config struct {
	Title      string
	Origin     geom.Point // top-left corner of the first row
	Spacing    float64    // vertical distance between rows
	SwatchSize float64
	TextStyle  style.Style
}

// DefaultConfig returns a legend anchored at origin.
func DefaultConfig(origin geom.Point) Config {
	return Config{Origin: origin, Spacing: 0.35, SwatchSize: 0.2}
}

// Layout renders entries as a vertical list of swatch and label pairs.
// All ops are on [scene.LayerLegend].
func Layout(entries []Entry, cfg Config) []scene.Op {
	if len(entries) == 0 {
		return nil
	}
	var ops []scene.Op
	y := cfg.Origin.Y
	if cfg.Title != "" {
		title := cfg.TextStyle
		ops = append(ops, scene.Text(scene.LayerLegend, scene.RoleLegend, "", geom.Pt(cfg.Origin.X, y), cfg.Title, scene.AnchorStart, title))
		ops[0].Bold = true
		y -= cfg.Spacing
	}
	half := cfg.SwatchSize / 2
	for _, e := range entries {
		c := geom.Pt(cfg.Origin.X+half, y)
		switch e.Swatch {
		case SwatchDiamond:
			ops = append(ops, scene.Polygon(scene.LayerLegend, scene.RoleLegend, e.Category, Diamond(c, half, half), e.Style))
		default:
			ops = append(ops, scene.Rect(scene.LayerLegend, scene.RoleLegend, e.Category, geom.BoxAround(c, cfg.SwatchSize, cfg.SwatchSize), e.Style))
		}
		ops = append(ops, scene.Text(scene.LayerLegend, scene.RoleLegend, e.Category,
			geom.Pt(cfg.Origin.X+cfg.SwatchSize+half, y), e.Label, scene.AnchorStart, cfg.TextStyle))
		y -= cfg.Spacing
	}
	return ops
}

// Diamond returns the four vertices of a diamond around c, starting at
// the left point and going clockwise.
func Diamond(c geom.Point, hw, hh float64) []geom.Point {
	return []geom.Point{
		c.Add(-hw, 0),
		c.Add(0, hh),
		c.Add(hw, 0),
		c.Add(0, -hh),
	}
}
