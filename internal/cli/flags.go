package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// renderFlags are the pipeline flags shared by compose and watch. Only
// flags the user actually set override the config file.
type renderFlags struct {
	formats     string
	theme       string
	themeFile   string
	engine      string
	boxWidth    float64
	boxHeight   float64
	labelBudget int
	laneMargin  float64
	noLegend    bool
	legendTitle string
	pixels      float64
	pngScale    float64
	noCache     bool
	refresh     bool

	// themeSet records that --theme replaced any configured theme file.
	themeSet bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	fs.StringVar(&f.theme, "theme", "", "built-in theme: brand (default), mono")
	fs.StringVar(&f.themeFile, "theme-file", "", "TOML theme file layered over the built-in theme")
	fs.StringVar(&f.engine, "engine", "", "render engine: native (default), graphviz")
	fs.Float64Var(&f.boxWidth, "box-width", 0, "entity box width in layout units")
	fs.Float64Var(&f.boxHeight, "box-height", 0, "entity box height in layout units")
	fs.IntVar(&f.labelBudget, "label-budget", 0, "attribute display width in cells before truncation")
	fs.Float64Var(&f.laneMargin, "lane-margin", 0, "horizontal margin of swimlane bands")
	fs.BoolVar(&f.noLegend, "no-legend", false, "omit the legend")
	fs.StringVar(&f.legendTitle, "legend-title", "", "legend heading")
	fs.Float64Var(&f.pixels, "pixels-per-unit", 0, "SVG pixels per layout unit")
	fs.Float64Var(&f.pngScale, "png-scale", 0, "PNG resolution multiplier")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")
}

// apply overlays the flags that were set on opts and validates the result.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	changed := cmd.Flags().Changed
	if changed("format") {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if changed("theme") {
		opts.Theme = f.theme
		opts.CustomTheme = nil
		f.themeSet = true
	}
	if changed("theme-file") {
		th, err := style.LoadTheme(f.themeFile)
		if err != nil {
			return err
		}
		opts.CustomTheme = &th
	}
	if changed("engine") {
		opts.Engine = f.engine
	}
	if changed("box-width") {
		opts.BoxWidth = f.boxWidth
	}
	if changed("box-height") {
		opts.BoxHeight = f.boxHeight
	}
	if changed("label-budget") {
		opts.LabelBudget = f.labelBudget
	}
	if changed("lane-margin") {
		opts.LaneMargin = f.laneMargin
	}
	if changed("no-legend") {
		opts.NoLegend = f.noLegend
	}
	if changed("legend-title") {
		opts.LegendTitle = f.legendTitle
	}
	if changed("pixels-per-unit") {
		opts.PixelsPerUnit = f.pixels
	}
	if changed("png-scale") {
		opts.PNGScale = f.pngScale
	}
	opts.Refresh = f.refresh
	return opts.ValidateAndSetDefaults()
}

// pipelineOptions builds options from the config with flag overrides.
func (c *CLI) pipelineOptions(cmd *cobra.Command, f *renderFlags) (pipeline.Options, error) {
	opts, err := c.config().PipelineOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	if err := f.apply(cmd, &opts); err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = c.Logger
	return opts, nil
}
