package legend

import (
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/scene"
	"github.com/matzehuels/diagramkit/pkg/style"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    []string
	}{
		{
			name: "Empty",
			want: []string{},
		},
		{
			name: "FirstSeenOrder",
			entries: []Entry{
				{Category: "Core"}, {Category: "Institution"}, {Category: "Core"},
				{Category: "Academic"}, {Category: "Institution"}, {Category: "Core"},
			},
			want: []string{"Core", "Institution", "Academic"},
		},
		{
			name: "FirstStyleWins",
			entries: []Entry{
				{Category: "Core", Style: style.Style{Fill: "#111111"}},
				{Category: "Core", Style: style.Style{Fill: "#222222"}},
			},
			want: []string{"Core"},
		},
		{
			name: "SwatchIgnored",
			entries: []Entry{
				{Category: "Decision Point", Swatch: SwatchBox},
				{Category: "Decision Point", Swatch: SwatchDiamond},
			},
			want: []string{"Decision Point"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := slices.Clone(tt.entries)
			got := Dedupe(tt.entries)
			cats := []string{}
			for _, e := range got {
				cats = append(cats, e.Category)
			}
			if !slices.Equal(cats, tt.want) {
				t.Errorf("Dedupe = %v, want %v", cats, tt.want)
			}
			if !slices.Equal(in, tt.entries) {
				t.Error("Dedupe mutated its input")
			}
		})
	}

	got := Dedupe([]Entry{
		{Category: "Core", Style: style.Style{Fill: "#111111"}},
		{Category: "Core", Style: style.Style{Fill: "#222222"}},
	})
	if got[0].Style.Fill != "#111111" {
		t.Errorf("kept fill %s, want first", got[0].Style.Fill)
	}

	got = Dedupe([]Entry{
		{Category: "Decision Point", Swatch: SwatchBox},
		{Category: "Decision Point", Swatch: SwatchDiamond},
	})
	if len(got) != 1 || got[0].Swatch != SwatchBox {
		t.Errorf("Dedupe = %+v, want the first box swatch only", got)
	}
}

func TestLayout(t *testing.T) {
	cfg := DefaultConfig(geom.Pt(10, 5))
	cfg.Title = "Entity Types"
	ops := Layout([]Entry{
		{Category: "Core", Label: "Core", Swatch: SwatchBox},
		{Category: "Decision", Label: "Decision Point", Swatch: SwatchDiamond},
	}, cfg)

	if len(ops) != 5 {
		t.Fatalf("len = %d, want 5", len(ops))
	}
	for i, op := range ops {
		if op.Layer != scene.LayerLegend {
			t.Errorf("[%d] layer = %s, want legend", i, op.Layer)
		}
	}
	if ops[0].Text != "Entity Types" || !ops[0].Bold {
		t.Errorf("title op = %+v", ops[0])
	}
	if ops[1].Kind != scene.KindRect || ops[3].Kind != scene.KindPolygon {
		t.Errorf("swatch kinds = %s, %s", ops[1].Kind, ops[3].Kind)
	}
	if ops[4].Text != "Decision Point" {
		t.Errorf("label = %q", ops[4].Text)
	}
	if ops[4].Pos.Y >= ops[2].Pos.Y {
		t.Error("rows should go downward")
	}
	if Layout(nil, cfg) != nil {
		t.Error("Layout(nil) should be nil")
	}
}

func TestDiamond(t *testing.T) {
	pts := Diamond(geom.Pt(3, 2), 0.25, 0.2)
	want := []geom.Point{{X: 2.75, Y: 2}, {X: 3, Y: 2.2}, {X: 3.25, Y: 2}, {X: 3, Y: 1.8}}
	if len(pts) != 4 {
		t.Fatalf("len = %d, want 4", len(pts))
	}
	for i := range want {
		if math.Abs(pts[i].X-want[i].X) > 1e-9 || math.Abs(pts[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("[%d] = %+v, want %+v", i, pts[i], want[i])
		}
	}
}
