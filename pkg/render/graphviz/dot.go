package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	gv "github.com/goccy/go-graphviz"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/layout"
	"github.com/matzehuels/diagramkit/pkg/render"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Options configures DOT export.
type Options struct {
	// Theme supplies category colors. Zero value means the brand theme.
	Theme style.Theme
	// InchesPerUnit maps layout units to Graphviz inches. Default 1.5.
	InchesPerUnit float64
	// Layout sets the node box size. Zero value means the stock box.
	Layout layout.Config
	// Formatter fits attribute text. Nil means the default formatter.
	Formatter *label.Formatter
}

func (o Options) withDefaults() Options {
	if o.Theme.Name == "" {
		o.Theme = style.Brand()
	}
	if o.InchesPerUnit <= 0 {
		o.InchesPerUnit = 1.5
	}
	o.Layout = o.Layout.WithDefaults()
	if o.Formatter == nil {
		o.Formatter = label.New()
	}
	return o
}

// ToDOT converts the node and edge part of a model to DOT. The model
// should be validated first; edges to unknown nodes are emitted as-is
// and Graphviz will create bare nodes for them.
func ToDOT(m *diagram.Model, opts Options) string {
	opts = opts.withDefaults()
	th := opts.Theme.Overlay(style.Theme{Categories: m.Palette})
	pal := th.Palette()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  overlap=true;\n")
	if th.Background != "" {
		fmt.Fprintf(&buf, "  bgcolor=%q;\n", th.Background)
	}
	if m.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=%.0f;\n", m.Title, fontSize(th.Title, 18))
	}
	fmt.Fprintf(&buf, "  node [shape=box, style=filled, fixedsize=true, width=%.2f, height=%.2f, fontname=%q];\n",
		opts.Layout.BoxWidth*opts.InchesPerUnit, opts.Layout.BoxHeight*opts.InchesPerUnit, or(th.Default.FontFamily, "Arial"))
	fmt.Fprintf(&buf, "  edge [arrowhead=none, color=%q, penwidth=%.1f, fontname=%q, fontsize=%.0f];\n",
		or(th.Connector.Stroke, "#333333"), width(th.Connector.StrokeWidth), or(th.EdgeLabel.FontFamily, "Arial"), fontSize(th.EdgeLabel, 14))
	buf.WriteString("\n")

	for _, n := range m.Nodes {
		s := pal.Resolve(n.Category)
		fmt.Fprintf(&buf, "  %q [pos=\"%.3f,%.3f!\", label=<%s>, fillcolor=%q, color=%q, fontcolor=%q, penwidth=%.1f];\n",
			n.ID, n.Position.X*opts.InchesPerUnit, n.Position.Y*opts.InchesPerUnit,
			htmlLabel(n, opts.Formatter), or(s.Fill, "#999999"), or(s.Stroke, "#000000"), or(s.Text, "#FFFFFF"), width(s.StrokeWidth))
	}

	buf.WriteString("\n")
	for _, e := range m.Edges {
		if e.SelfLoop() {
			continue
		}
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func htmlLabel(n diagram.Node, f *label.Formatter) string {
	var b strings.Builder
	b.WriteString(`<TABLE BORDER="0" CELLBORDER="0" CELLSPACING="0">`)
	fmt.Fprintf(&b, `<TR><TD><B>%s</B></TD></TR>`, html.EscapeString(n.ID))
	for _, frag := range f.Format(n.Attributes) {
		text := html.EscapeString(frag.Text)
		switch {
		case frag.Bold():
			text = "<B>" + text + "</B>"
		case frag.Italic():
			text = "<I>" + text + "</I>"
		}
		fmt.Fprintf(&b, `<TR><TD><FONT POINT-SIZE="10">%s</FONT></TD></TR>`, text)
	}
	b.WriteString(`</TABLE>`)
	return b.String()
}

// RenderSVG renders DOT to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	g, err := gv.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer g.Close()
	g.SetLayout(gv.NEATO)

	graph, err := gv.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.Render(ctx, graph, gv.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// Render exports m in the given format ("dot", "svg", "png" or "pdf").
// PNG and PDF go through rsvg-convert.
func Render(ctx context.Context, m *diagram.Model, format string, opts Options) ([]byte, error) {
	dot := ToDOT(m, opts)
	if format == "dot" {
		return []byte(dot), nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case "svg":
		return svg, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svg, 2)
	case render.FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return nil, fmt.Errorf("graphviz: unsupported format %q", format)
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func width(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func fontSize(s style.Style, def float64) float64 {
	if s.FontSize > 0 {
		return s.FontSize
	}
	return def
}
