package sink

import (
	"context"

	"github.com/matzehuels/diagramkit/pkg/render"
	"github.com/matzehuels/diagramkit/pkg/scene"
)

// RenderPDF renders the scene as PDF via SVG conversion.
func RenderPDF(ctx context.Context, sc *scene.Scene, opts ...SVGOption) ([]byte, error) {
	svg, err := RenderSVG(sc, opts...)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
