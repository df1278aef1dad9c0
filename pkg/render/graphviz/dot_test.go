package graphviz

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/style"
)

func testModel() *diagram.Model {
	return &diagram.Model{
		Title: "ERD",
		Nodes: []diagram.Node{
			{ID: "Users", Category: "Core", Position: geom.Pt(3, 8), Attributes: []diagram.Attribute{diagram.Attr("user_id (PK)"), diagram.Attr("email")}},
			{ID: "Students", Category: "Academic", Position: geom.Pt(1, 6), Attributes: []diagram.Attribute{diagram.Attr("user_id (FK)")}},
			{ID: "R&D", Position: geom.Pt(5, 6)},
		},
		Edges: []diagram.Edge{
			{From: "Users", To: "Students", Label: "1:1"},
			{From: "Users", To: "R&D"},
			{From: "Users", To: "Users"},
		},
		Palette: map[string]style.Style{"Core": {Fill: "#1FB8CD"}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testModel(), Options{InchesPerUnit: 1})

	for _, want := range []string{
		"digraph G {",
		"layout=neato;",
		`label="ERD";`,
		`"Users" [pos="3.000,8.000!"`,
		`fillcolor="#1FB8CD"`,
		"<B>user_id (PK)</B>",
		"<I>user_id (FK)</I>",
		"<B>R&amp;D</B>",
		`"Users" -> "Students" [label="1:1"];`,
		`"Users" -> "R&D";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"Users" -> "Users"`) {
		t.Error("self-loop should be skipped")
	}
}

func TestToDOTScale(t *testing.T) {
	dot := ToDOT(testModel(), Options{})
	if !strings.Contains(dot, `pos="4.500,12.000!"`) {
		t.Errorf("default scale not applied:\n%s", dot)
	}
	if !strings.Contains(dot, "width=2.40, height=1.80") {
		t.Errorf("box size not scaled:\n%s", dot)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	data, err := Render(ctx, testModel(), "dot", Options{})
	if err != nil || !strings.HasPrefix(string(data), "digraph") {
		t.Fatalf("Render dot = %q, %v", data, err)
	}
	if _, err := Render(ctx, testModel(), "bmp", Options{}); err == nil {
		t.Error("expected error for bmp")
	}

	svg, err := Render(ctx, testModel(), "svg", Options{})
	if err != nil {
		t.Fatalf("Render svg: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}
