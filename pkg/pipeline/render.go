package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/render/graphviz"
	"github.com/matzehuels/diagramkit/pkg/render/sink"
	"github.com/matzehuels/diagramkit/pkg/scene"
)

// Render produces one artifact per requested format. The native engine
// draws sc; the graphviz engine exports the node/edge part of m and
// still uses sc for JSON.
func Render(ctx context.Context, m *diagram.Model, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			data []byte
			err  error
		)
		switch {
		case format == FormatJSON:
			data, err = sink.RenderJSON(sc)
		case opts.Engine == EngineGraphviz:
			data, err = graphviz.Render(ctx, m, format, opts.GraphvizOptions())
		default:
			data, err = sink.Write(ctx, sc, format, opts.SinkOptions())
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		out[format] = data
	}
	return out, nil
}

// SinkOptions returns the native sink settings.
func (o *Options) SinkOptions() sink.Options {
	var svg []sink.SVGOption
	if o.PixelsPerUnit > 0 {
		svg = append(svg, sink.WithPixelsPerUnit(o.PixelsPerUnit))
	}
	if o.Padding > 0 {
		svg = append(svg, sink.WithPadding(o.Padding))
	}
	if bg := o.ResolvedTheme().Background; bg != "" {
		svg = append(svg, sink.WithBackground(bg))
	}
	return sink.Options{SVG: svg, PNGScale: o.PNGScale}
}

// GraphvizOptions returns the Graphviz export settings.
func (o *Options) GraphvizOptions() graphviz.Options {
	return graphviz.Options{
		Theme:     o.ResolvedTheme(),
		Layout:    o.LayoutConfig(),
		Formatter: label.New(label.WithBudget(o.LabelBudget)),
	}
}
