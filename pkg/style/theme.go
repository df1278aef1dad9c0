package style

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

// Built-in theme names.
const (
	ThemeBrand = "brand"
	ThemeMono  = "mono"
)

// BrandColors is the qualitative color cycle used by the built-in theme.
var BrandColors = []string{"#1FB8CD", "#DB4545", "#2E8B57", "#5D878F", "#D2BA4C", "#B4413C", "#964325"}

// Theme bundles a category palette with the fixed roles the composer
// needs (connectors, arrows, titles).
type Theme struct {
	Name       string           `toml:"name"`
	Background string           `toml:"background"`
	Default    Style            `toml:"default"`
	Categories map[string]Style `toml:"categories"`

	Connector  Style `toml:"connector"`   // entity relationship lines
	Arrow      Style `toml:"arrow"`       // swimlane step arrows
	Marker     Style `toml:"marker"`      // step marker outline; fill comes from the lane
	Band       Style `toml:"band"`        // lane band; fill and stroke come from the lane
	EdgeLabel  Style `toml:"edge_label"`  // cardinality and other connector labels
	Header     Style `toml:"header"`      // node name inside a node box
	Attribute  Style `toml:"attribute"`   // attribute rows inside a node box
	StepText   Style `toml:"step_text"`   // text centered on a step marker
	Title      Style `toml:"title"`       // diagram title
	FlowTitle  Style `toml:"flow_title"`  // flow title badge
	LaneLabel  Style `toml:"lane_label"`  // lane name badge
	LegendText Style `toml:"legend_text"` // legend entry text
	Decision   Style `toml:"decision"`    // decision-point legend swatch
}

// Palette builds the closed category palette for the theme. Every
// category style is merged over the theme default.
func (t Theme) Palette() *Palette {
	entries := make(map[string]Style, len(t.Categories))
	for _, k := range slices.Sorted(maps.Keys(t.Categories)) {
		entries[k] = t.Default.Merge(t.Categories[k])
	}
	return NewPalette(t.Default, entries)
}

// Overlay returns t with o's non-zero role styles and categories applied.
func (t Theme) Overlay(o Theme) Theme {
	if o.Name != "" {
		t.Name = o.Name
	}
	if o.Background != "" {
		t.Background = o.Background
	}
	t.Default = t.Default.Merge(o.Default)
	cats := maps.Clone(t.Categories)
	if cats == nil {
		cats = make(map[string]Style, len(o.Categories))
	}
	for k, v := range o.Categories {
		cats[k] = cats[k].Merge(v)
	}
	t.Categories = cats
	t.Connector = t.Connector.Merge(o.Connector)
	t.Arrow = t.Arrow.Merge(o.Arrow)
	t.Marker = t.Marker.Merge(o.Marker)
	t.Band = t.Band.Merge(o.Band)
	t.EdgeLabel = t.EdgeLabel.Merge(o.EdgeLabel)
	t.Header = t.Header.Merge(o.Header)
	t.Attribute = t.Attribute.Merge(o.Attribute)
	t.StepText = t.StepText.Merge(o.StepText)
	t.Title = t.Title.Merge(o.Title)
	t.FlowTitle = t.FlowTitle.Merge(o.FlowTitle)
	t.LaneLabel = t.LaneLabel.Merge(o.LaneLabel)
	t.LegendText = t.LegendText.Merge(o.LegendText)
	t.Decision = t.Decision.Merge(o.Decision)
	return t
}

// Brand returns the default documentation theme.
func Brand() Theme {
	return Theme{
		Name:       ThemeBrand,
		Background: "#FFFFFF",
		Default:    Style{Fill: "#999999", Stroke: "#000000", StrokeWidth: 2, Text: "#FFFFFF", FontSize: 11, FontFamily: "Arial"},
		Connector:  Style{Stroke: "#333333", StrokeWidth: 2},
		Arrow:      Style{Stroke: "#333333", StrokeWidth: 3, Fill: "#333333"},
		Marker:     Style{Stroke: "#FFFFFF", StrokeWidth: 3, Opacity: 0.9},
		Band:       Style{StrokeWidth: 2, Opacity: 0.15},
		EdgeLabel:  Style{Text: "#000000", FontSize: 14, FontFamily: "Arial Black"},
		Header:     Style{Text: "#FFFFFF", FontSize: 16, FontFamily: "Arial Black"},
		Attribute:  Style{Text: "#FFFFFF", FontSize: 10, FontFamily: "Arial"},
		StepText:   Style{Text: "#FFFFFF", FontSize: 11, FontFamily: "Arial"},
		Title:      Style{Text: "#000000", FontSize: 18, FontFamily: "Arial"},
		FlowTitle:  Style{Fill: "#FFFFFF", Stroke: "#000000", StrokeWidth: 1, Opacity: 0.8, Text: "#000000", FontSize: 12, FontFamily: "Arial"},
		LaneLabel:  Style{Fill: "#FFFFFF", StrokeWidth: 1, FontSize: 14, FontFamily: "Arial Black"},
		LegendText: Style{Text: "#000000", FontSize: 10, FontFamily: "Arial"},
		Decision:   Style{Fill: "#999999", Stroke: "#FFFFFF", StrokeWidth: 2, Opacity: 0.8},
	}
}

// Mono returns a grayscale theme suitable for print.
func Mono() Theme {
	t := Brand()
	t.Name = ThemeMono
	t.Default = Style{Fill: "#DDDDDD", Stroke: "#000000", StrokeWidth: 1, Text: "#000000", FontSize: 11, FontFamily: "Helvetica"}
	t.Header.Text = "#000000"
	t.Attribute.Text = "#000000"
	t.StepText.Text = "#000000"
	t.Decision.Fill = "#BBBBBB"
	return t
}

// ThemeByName returns a built-in theme.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", ThemeBrand:
		return Brand(), true
	case ThemeMono:
		return Mono(), true
	}
	return Theme{}, false
}

// DecodeTheme parses a TOML theme and overlays it on the built-in theme
// it names in its "base" key (brand when absent).
func DecodeTheme(data []byte) (Theme, error) {
	var raw struct {
		Base string `toml:"base"`
		Theme
	}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return Theme{}, fmt.Errorf("decode theme: %w", err)
	}
	base, ok := ThemeByName(raw.Base)
	if !ok {
		return Theme{}, fmt.Errorf("decode theme: unknown base theme %q", raw.Base)
	}
	return base.Overlay(raw.Theme), nil
}

// LoadTheme reads a TOML theme file.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	return DecodeTheme(data)
}
