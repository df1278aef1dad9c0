// Package pipeline runs the compose → render pipeline with caching.
//
// CLI, API server and watch mode all go through a [Runner] so that they
// share defaults, cache keys and observability events.
//
// # Stages
//
//  1. Compose: validate the model and build a [scene.Scene]
//  2. Render: turn the scene into artifacts (SVG, PNG, PDF, JSON) with
//     the native sink, or hand the model to Graphviz
//
// Both stages are cached by content hash. Composition is pure, so a
// cached scene is interchangeable with a fresh one.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, model, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diagramkit/pkg/cache"
	"github.com/matzehuels/diagramkit/pkg/compose"
	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/layout"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

const (
	// DefaultTheme is the built-in theme used when none is named.
	DefaultTheme = style.ThemeBrand

	// DefaultEngine draws scenes with the built-in SVG sink.
	DefaultEngine = EngineNative

	// DefaultPNGScale doubles the resolution of PNG output.
	DefaultPNGScale = 2.0
)

// Render engines.
const (
	EngineNative   = "native"
	EngineGraphviz = "graphviz"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats maps each engine to the formats it produces.
var ValidFormats = map[string][]string{
	EngineNative:   {FormatSVG, FormatPNG, FormatPDF, FormatJSON},
	EngineGraphviz: {FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT},
}

// Options configures a pipeline run. It is JSON-serializable so the API
// accepts it verbatim.
type Options struct {
	// Compose options
	Theme       string  `json:"theme,omitempty"`
	BoxWidth    float64 `json:"box_width,omitempty"`
	BoxHeight   float64 `json:"box_height,omitempty"`
	LabelBudget int     `json:"label_budget,omitempty"`
	LineHeight  float64 `json:"line_height,omitempty"`
	LaneMargin  float64 `json:"lane_margin,omitempty"`
	NoLegend    bool    `json:"no_legend,omitempty"`
	LegendTitle string  `json:"legend_title,omitempty"`

	// Render options
	Engine        string   `json:"engine,omitempty"`
	Formats       []string `json:"formats,omitempty"`
	PixelsPerUnit float64  `json:"pixels_per_unit,omitempty"`
	Padding       float64  `json:"padding,omitempty"`
	PNGScale      float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	CustomTheme *style.Theme `json:"-"`
	Logger      *log.Logger  `json:"-"`

	validated bool
}

// Result is the output of a pipeline run.
type Result struct {
	Model     *diagram.Model
	ModelHash string
	Scene     *scene.Scene
	SceneHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Warnings returns the scene diagnostics.
func (r *Result) Warnings() []errors.Warning {
	if r.Scene == nil {
		return nil
	}
	return r.Scene.Warnings
}

// Stats holds sizes and timings of a run.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	FlowCount   int
	OpCount     int
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	SceneHit  bool
	RenderHit bool
}

// ValidateEngine checks an engine name.
func ValidateEngine(engine string) error {
	if _, ok := ValidFormats[engine]; !ok {
		return errors.NewRef(errors.ErrCodeInvalidInput, engine, "invalid engine %q (must be one of: %s, %s)", engine, EngineNative, EngineGraphviz)
	}
	return nil
}

// ValidateFormats checks that every format is produced by engine.
func ValidateFormats(engine string, formats []string) error {
	allowed := ValidFormats[engine]
	return errors.ValidateFormats(formats, allowed)
}

// ValidateTheme checks that a theme name is built in.
func ValidateTheme(name string) error {
	if _, ok := style.ThemeByName(name); !ok {
		return errors.NewRef(errors.ErrCodeInvalidTheme, name, "unknown theme %q (must be one of: %s, %s)", name, style.ThemeBrand, style.ThemeMono)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and checks every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.LabelBudget <= 0 {
		o.LabelBudget = label.DefaultBudget
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.CustomTheme == nil {
		if err := ValidateTheme(o.Theme); err != nil {
			return err
		}
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := ValidateFormats(o.Engine, o.Formats); err != nil {
		return err
	}
	if o.BoxWidth < 0 || o.BoxHeight < 0 || o.LineHeight < 0 || o.LaneMargin < 0 || o.PixelsPerUnit < 0 || o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "sizes must not be negative")
	}
	o.validated = true
	return nil
}

// ResolvedTheme returns the custom theme if set, otherwise the named
// built-in theme.
func (o *Options) ResolvedTheme() style.Theme {
	if o.CustomTheme != nil {
		return *o.CustomTheme
	}
	if t, ok := style.ThemeByName(o.Theme); ok {
		return t
	}
	return style.Brand()
}

// themeKey identifies the theme in cache keys. Custom themes are keyed
// by content.
func (o *Options) themeKey() string {
	if o.CustomTheme == nil {
		return o.Theme
	}
	data, _ := json.Marshal(o.CustomTheme)
	return "custom:" + cache.Hash(data)
}

// LayoutConfig returns the node box configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{BoxWidth: o.BoxWidth, BoxHeight: o.BoxHeight}.WithDefaults()
}

// ComposeOptions translates o into compose options.
func (o *Options) ComposeOptions() []compose.Option {
	return []compose.Option{
		compose.WithTheme(o.ResolvedTheme()),
		compose.WithLayout(o.LayoutConfig()),
		compose.WithFormatter(label.New(label.WithBudget(o.LabelBudget))),
		compose.WithLineHeight(o.LineHeight),
		compose.WithLaneMargin(o.LaneMargin),
		compose.WithLegend(!o.NoLegend),
		compose.WithLegendTitle(o.LegendTitle),
	}
}

// SceneKeyOpts returns the cache key options for the compose stage.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	l := o.LayoutConfig()
	return cache.SceneKeyOpts{
		Theme:       o.themeKey(),
		BoxWidth:    l.BoxWidth,
		BoxHeight:   l.BoxHeight,
		LabelBudget: o.LabelBudget,
		LineHeight:  o.LineHeight,
		LaneMargin:  o.LaneMargin,
		Legend:      !o.NoLegend,
		LegendTitle: o.LegendTitle,
	}
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:        format,
		PixelsPerUnit: o.PixelsPerUnit,
		Padding:       o.Padding,
	}
	if format == FormatPNG {
		k.Scale = o.PNGScale
	}
	if o.Engine != EngineNative {
		k.Format = o.Engine + "/" + format
	}
	return k
}

// ParseFormats splits a comma-separated format list.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}
