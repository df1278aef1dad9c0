package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const rsvgBinary = "rsvg-convert"

// Formats accepted by [Convert].
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// ConverterAvailable reports whether rsvg-convert is on PATH.
func ConverterAvailable() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts SVG bytes to PDF.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return Convert(ctx, svg, FormatPDF, 1)
}

// ToPNG converts SVG bytes to PNG. A scale of 2.0 doubles the resolution.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return Convert(ctx, svg, FormatPNG, scale)
}

// Convert pipes svg through rsvg-convert. The process is killed when
// ctx is cancelled.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	if format != FormatPDF && format != FormatPNG {
		return nil, fmt.Errorf("convert: unsupported format %q", format)
	}
	if !ConverterAvailable() {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := []string{"-f", format}
	if format == FormatPNG && scale > 0 {
		args = append(args, "-z", fmt.Sprintf("%.2f", scale))
	}
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %v: %s", rsvgBinary, err, stderr.String())
	}
	return out.Bytes(), nil
}
