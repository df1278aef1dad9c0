package sink

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

func testScene() *scene.Scene {
	node := style.Style{Fill: "#2E8B57", Stroke: "#000000", StrokeWidth: 2}
	text := style.Style{Text: "#FFFFFF", FontSize: 10}
	attr := scene.Text(scene.LayerText, scene.RoleAttribute, "Students", geom.Pt(1, 5.9), "student_id (PK)", scene.AnchorMiddle, text)
	attr.Bold = true
	fk := scene.Text(scene.LayerText, scene.RoleAttribute, "Students", geom.Pt(1, 5.74), "user_id (FK)", scene.AnchorMiddle, text)
	fk.Italic = true
	return scene.Assemble("ERD <draft>", []scene.Op{
		scene.Rect(scene.LayerBackground, scene.RoleLane, "Student", geom.Box{Left: 0, Right: 4, Bottom: 5.55, Top: 6.45}, style.Style{Fill: "#1FB8CD", Opacity: 0.15}),
		scene.Rect(scene.LayerShape, scene.RoleNode, "Students", geom.BoxAround(geom.Pt(1, 6), 1.6, 1.2), node),
		scene.Line(scene.LayerConnector, scene.RoleEdge, "Students->Alumni", geom.Pt(1.8, 6), geom.Pt(4.2, 6), false, style.Style{Stroke: "#333333", StrokeWidth: 2}),
		scene.Line(scene.LayerConnector, scene.RoleArrow, "f/0>1", geom.Pt(1.35, 4), geom.Pt(2.65, 3), true, style.Style{Stroke: "#333333", StrokeWidth: 3}),
		scene.Polygon(scene.LayerShape, scene.RoleStep, "f/1", []geom.Point{{X: 2.75, Y: 3}, {X: 3, Y: 3.2}, {X: 3.25, Y: 3}, {X: 3, Y: 2.8}}, node),
		attr, fk,
	}, nil)
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(testScene())
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	s := string(svg)

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`<title>ERD &lt;draft&gt;</title>`,
		`font-weight="bold">student_id (PK)</text>`,
		`font-style="italic">user_id (FK)</text>`,
		`opacity="0.15"`,
		`<polygon points=`,
		"</svg>\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("SVG missing %q", want)
		}
	}

	// Well-formed XML.
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		if _, err := dec.Token(); err != nil {
			if err != io.EOF {
				t.Fatalf("invalid XML: %v", err)
			}
			break
		}
	}

	// Lane band first, text last.
	if strings.Index(s, `#1FB8CD`) > strings.Index(s, `#2E8B57`) {
		t.Error("background drawn after shapes")
	}
	if strings.Index(s, "<text") < strings.LastIndex(s, "<polygon") {
		t.Error("text drawn before shapes")
	}
}

func TestRenderSVGEscapesStyleValues(t *testing.T) {
	hostile := `red" onload="alert(1)`
	sc := scene.Assemble("", []scene.Op{
		scene.Rect(scene.LayerShape, scene.RoleNode, "x", geom.BoxAround(geom.Pt(0, 0), 1.6, 1.2), style.Style{Fill: hostile, Stroke: hostile}),
		scene.Line(scene.LayerConnector, scene.RoleArrow, "a>b", geom.Pt(0, 0), geom.Pt(2, 0), true, style.Style{Stroke: hostile}),
		scene.Text(scene.LayerText, scene.RoleHeader, "x", geom.Pt(0, 0), "x", scene.AnchorMiddle, style.Style{Text: hostile, FontFamily: "<Inter>"}),
	}, nil)
	svg, err := RenderSVG(sc, WithBackground(hostile))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}

	dec := xml.NewDecoder(bytes.NewReader(svg))
	fills := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, svg)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "onload":
				t.Errorf("<%s> gained an onload attribute", el.Name.Local)
			case "fill", "stroke":
				if a.Value == hostile {
					fills++
				}
			}
		}
	}
	// background, rect fill and stroke, line stroke, arrow head, text fill
	if fills != 6 {
		t.Errorf("round-tripped color values = %d, want 6", fills)
	}
}

func TestRenderSVGFlipsY(t *testing.T) {
	sc := scene.Assemble("", []scene.Op{
		scene.Rect(scene.LayerShape, scene.RoleNode, "top", geom.Box{Left: 0, Right: 1, Bottom: 9, Top: 10}, style.Style{Fill: "#111111"}),
		scene.Rect(scene.LayerShape, scene.RoleNode, "bottom", geom.Box{Left: 0, Right: 1, Bottom: 0, Top: 1}, style.Style{Fill: "#222222"}),
	}, nil)
	svg, err := RenderSVG(sc, WithPixelsPerUnit(10), WithPadding(0), WithBackground(""))
	if err != nil {
		t.Fatal(err)
	}
	s := string(svg)
	if !strings.Contains(s, `<rect x="0.00" y="0.00" width="10.00" height="10.00" fill="#111111"/>`) {
		t.Errorf("high y not at top:\n%s", s)
	}
	if !strings.Contains(s, `<rect x="0.00" y="90.00" width="10.00" height="10.00" fill="#222222"/>`) {
		t.Errorf("low y not at bottom:\n%s", s)
	}
	if !strings.Contains(s, `width="10" height="100"`) {
		t.Errorf("unexpected size:\n%s", s)
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	a, _ := RenderSVG(testScene())
	b, _ := RenderSVG(testScene())
	if !bytes.Equal(a, b) {
		t.Error("SVG output not deterministic")
	}
}

func TestWrite(t *testing.T) {
	ctx := context.Background()
	sc := testScene()

	data, err := Write(ctx, sc, FormatJSON, Options{})
	if err != nil {
		t.Fatalf("Write json: %v", err)
	}
	back, err := scene.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back.Ops) != len(sc.Ops) {
		t.Errorf("ops = %d, want %d", len(back.Ops), len(sc.Ops))
	}

	if _, err := Write(ctx, sc, "gif", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Write gif err = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out/erd.svg", FormatSVG, false},
		{"flows.PNG", FormatPNG, false},
		{"doc.pdf", FormatPDF, false},
		{"scene.json", FormatJSON, false},
		{"diagram.gif", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) err = %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erd.svg")
	if err := WriteFile(context.Background(), testScene(), path, Options{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Error("file is not SVG")
	}
}
