package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/scene"
)

// Output format names.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists every format [Write] accepts.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// Options bundles the per-format settings used by [Write].
type Options struct {
	SVG      []SVGOption
	PNGScale float64
}

// Write renders sc in the named format.
func Write(ctx context.Context, sc *scene.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(sc, opts.SVG...)
	case FormatPNG:
		return RenderPNG(ctx, sc, WithPNGSVGOptions(opts.SVG...), WithScale(opts.PNGScale))
	case FormatPDF:
		return RenderPDF(ctx, sc, opts.SVG...)
	case FormatJSON:
		return RenderJSON(sc)
	}
	return nil, errors.NewRef(errors.ErrCodeInvalidFormat, format, "unsupported format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
}

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, f := range Formats {
		if ext == f {
			return f, nil
		}
	}
	return "", errors.NewRef(errors.ErrCodeInvalidFormat, path, "cannot infer format from %q", path)
}

// WriteFile renders sc to path, inferring the format from the extension.
func WriteFile(ctx context.Context, sc *scene.Scene, path string, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Write(ctx, sc, format, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
