package sink

import (
	"context"

	"github.com/matzehuels/diagramkit/pkg/render"
	"github.com/matzehuels/diagramkit/pkg/scene"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions passes options through to the underlying SVG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// RenderPNG renders the scene as PNG via SVG conversion.
func RenderPNG(ctx context.Context, sc *scene.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	svg, err := RenderSVG(sc, r.svgOpts...)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, r.scale)
}
