package compose

import (
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/layout"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Option configures a composition.
type Option func(*options)

type options struct {
	theme       style.Theme
	layout      layout.Config
	formatter   *label.Formatter
	lineHeight  float64
	laneMargin  float64
	legend      bool
	legendTitle string
}

func defaultOptions() options {
	return options{
		theme:      style.Brand(),
		layout:     layout.DefaultConfig(),
		lineHeight: 0.16,
		laneMargin: 1,
		legend:     true,
	}
}

// WithTheme sets the visual theme. Model palette entries still apply on
// top of it.
func WithTheme(t style.Theme) Option { return func(o *options) { o.theme = t } }

// WithLayout sets the anchor box size.
func WithLayout(c layout.Config) Option { return func(o *options) { o.layout = c.WithDefaults() } }

// WithFormatter sets the attribute label formatter.
func WithFormatter(f *label.Formatter) Option { return func(o *options) { o.formatter = f } }

// WithLineHeight sets the spacing between attribute rows.
func WithLineHeight(h float64) Option {
	return func(o *options) {
		if h > 0 {
			o.lineHeight = h
		}
	}
}

// WithLaneMargin sets how far lane bands extend past the outermost steps.
func WithLaneMargin(m float64) Option {
	return func(o *options) {
		if m > 0 {
			o.laneMargin = m
		}
	}
}

// WithLegend enables or disables the legend.
func WithLegend(on bool) Option { return func(o *options) { o.legend = on } }

// WithLegendTitle sets a heading above the legend entries.
func WithLegendTitle(title string) Option { return func(o *options) { o.legendTitle = title } }
