package style

import (
	"maps"
	"slices"
)

// Style is the resolved visual appearance of a shape, connector or text.
// Colors are CSS color strings. Zero numeric values mean "sink default".
type Style struct {
	Fill        string  `json:"fill,omitempty" bson:"fill,omitempty" toml:"fill" yaml:"fill"`
	Stroke      string  `json:"stroke,omitempty" bson:"stroke,omitempty" toml:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"stroke_width,omitempty" bson:"stroke_width,omitempty" toml:"stroke_width" yaml:"stroke_width"`
	Text        string  `json:"text,omitempty" bson:"text,omitempty" toml:"text" yaml:"text"`
	FontSize    float64 `json:"font_size,omitempty" bson:"font_size,omitempty" toml:"font_size" yaml:"font_size"`
	FontFamily  string  `json:"font_family,omitempty" bson:"font_family,omitempty" toml:"font_family" yaml:"font_family"`
	Opacity     float64 `json:"opacity,omitempty" bson:"opacity,omitempty" toml:"opacity" yaml:"opacity"`
}

// Merge returns s with every non-zero field of o applied on top.
func (s Style) Merge(o Style) Style {
	if o.Fill != "" {
		s.Fill = o.Fill
	}
	if o.Stroke != "" {
		s.Stroke = o.Stroke
	}
	if o.StrokeWidth != 0 {
		s.StrokeWidth = o.StrokeWidth
	}
	if o.Text != "" {
		s.Text = o.Text
	}
	if o.FontSize != 0 {
		s.FontSize = o.FontSize
	}
	if o.FontFamily != "" {
		s.FontFamily = o.FontFamily
	}
	if o.Opacity != 0 {
		s.Opacity = o.Opacity
	}
	return s
}

// WithOpacity returns s with the given opacity.
func (s Style) WithOpacity(o float64) Style {
	s.Opacity = o
	return s
}

// Resolver maps a category to a style. Implementations must be pure and
// must fall back to a default instead of failing.
type Resolver interface {
	Resolve(category string) Style
}

// Palette is a closed category lookup with a default fallback.
// A Palette is immutable once built and safe for concurrent use.
type Palette struct {
	def    Style
	styles map[string]Style
}

// NewPalette creates a palette. The entries map is copied.
func NewPalette(def Style, entries map[string]Style) *Palette {
	return &Palette{def: def, styles: maps.Clone(entries)}
}

// Resolve returns the style registered for category, or the default.
func (p *Palette) Resolve(category string) Style {
	if s, ok := p.styles[category]; ok {
		return s
	}
	return p.def
}

// Lookup returns the style registered for category and whether it exists.
// A miss still returns the default style.
func (p *Palette) Lookup(category string) (Style, bool) {
	s, ok := p.styles[category]
	if !ok {
		return p.def, false
	}
	return s, true
}

// Default returns the fallback style.
func (p *Palette) Default() Style { return p.def }

// With returns a copy of p with category mapped to s merged over the
// default style.
func (p *Palette) With(category string, s Style) *Palette {
	styles := maps.Clone(p.styles)
	if styles == nil {
		styles = make(map[string]Style, 1)
	}
	styles[category] = p.def.Merge(s)
	return &Palette{def: p.def, styles: styles}
}

// Categories returns the registered categories in sorted order.
func (p *Palette) Categories() []string {
	return slices.Sorted(maps.Keys(p.styles))
}

var _ Resolver = (*Palette)(nil)
