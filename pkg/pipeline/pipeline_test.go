package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/diagramkit/pkg/cache"
	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/observability"
	"github.com/matzehuels/diagramkit/pkg/style"
)

func erdModel() *diagram.Model {
	return &diagram.Model{
		Title: "Platform ERD",
		Nodes: []diagram.Node{
			{ID: "Users", Category: "Core", Position: geom.Pt(3, 8), Attributes: []diagram.Attribute{diagram.Attr("user_id (PK)"), diagram.Attr("email")}},
			{ID: "Students", Category: "Academic", Position: geom.Pt(1, 6), Attributes: []diagram.Attribute{diagram.Attr("student_id (PK)"), diagram.Attr("user_id (FK)")}},
		},
		Edges: []diagram.Edge{{From: "Users", To: "Students", Label: "1:1"}},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if o.Theme != DefaultTheme || o.Engine != DefaultEngine {
		t.Errorf("defaults: theme=%q engine=%q", o.Theme, o.Engine)
	}
	if !reflect.DeepEqual(o.Formats, []string{FormatSVG}) {
		t.Errorf("default formats = %v", o.Formats)
	}
	if o.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %v", o.PNGScale)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown theme", Options{Theme: "neon"}, errors.ErrCodeInvalidTheme},
		{"unknown engine", Options{Engine: "canvas"}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"dot needs graphviz", Options{Formats: []string{"dot"}}, errors.ErrCodeInvalidFormat},
		{"negative size", Options{BoxWidth: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}

	custom := Options{Theme: "anything", CustomTheme: &style.Theme{Name: "mine"}}
	if err := custom.ValidateAndSetDefaults(); err != nil {
		t.Errorf("custom theme should skip name check: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg, PNG,,json", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	defer r.Close()

	opts := Options{Formats: []string{FormatSVG, FormatJSON}}
	res, err := r.Execute(ctx, erdModel(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing <svg")
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact is not valid JSON")
	}
	if res.Stats.NodeCount != 2 || res.Stats.EdgeCount != 1 || res.Stats.OpCount == 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.CacheInfo.SceneHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if res.ModelHash == "" || res.SceneHash == "" {
		t.Error("hashes not set")
	}

	again, err := r.Execute(ctx, erdModel(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.SceneHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts[FormatSVG], res.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	if again.SceneHash != res.SceneHash {
		t.Error("cached scene hash differs")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, erdModel(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheInfo.SceneHit || fresh.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass cache: %+v", fresh.CacheInfo)
	}
}

func TestExecuteOptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Execute(ctx, erdModel(), Options{}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, erdModel(), Options{Theme: style.ThemeMono})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.SceneHit {
		t.Error("theme change should miss the scene cache")
	}

	m := erdModel()
	m.Edges[0].Label = "1:M"
	res, err = r.Execute(ctx, m, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.SceneHit {
		t.Error("model change should miss the scene cache")
	}
}

func TestExecuteInvalidModel(t *testing.T) {
	m := erdModel()
	m.Edges = append(m.Edges, diagram.Edge{From: "Users", To: "Ghost"})

	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), m, Options{})
	if !errors.Is(err, errors.ErrCodeUnknownNodeReference) {
		t.Fatalf("err = %v", err)
	}
	if errors.GetRef(err) != "Ghost" {
		t.Errorf("ref = %q", errors.GetRef(err))
	}

	if _, err := r.Execute(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidModel) {
		t.Errorf("nil model err = %v", err)
	}
}

func TestExecuteGraphvizDOT(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), erdModel(), Options{
		Engine:  EngineGraphviz,
		Formats: []string{FormatDOT, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dot := string(res.Artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph") || !strings.Contains(dot, `"Users" -> "Students"`) {
		t.Errorf("unexpected DOT:\n%s", dot)
	}
	if !json.Valid(res.Artifacts[FormatJSON]) {
		t.Error("json artifact is not valid JSON")
	}
}

func TestExecuteBatch(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	jobs := make([]Job, 5)
	for i := range jobs {
		m := erdModel()
		m.Title = strings.Repeat("x", i+1)
		jobs[i] = Job{Name: m.Title, Model: m, Options: Options{Formats: []string{FormatJSON}}}
	}

	results, err := r.ExecuteBatch(context.Background(), jobs, 2)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	for i, res := range results {
		if res.Scene.Title != jobs[i].Model.Title {
			t.Errorf("result %d out of order: %q", i, res.Scene.Title)
		}
	}

	bad := erdModel()
	bad.Edges[0].To = "Ghost"
	jobs = append(jobs, Job{Name: "bad", Model: bad})
	_, err = r.ExecuteBatch(context.Background(), jobs, 0)
	if !errors.Is(err, errors.ErrCodeUnknownNodeReference) {
		t.Errorf("batch err = %v", err)
	}
	if err != nil && !strings.HasPrefix(err.Error(), "bad:") {
		t.Errorf("batch err should name the job: %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnComposeStart(ctx context.Context, kind string) { h.record("compose:" + kind) }
func (h *recordingHooks) OnRenderStart(ctx context.Context, formats []string) {
	h.record("render:" + strings.Join(formats, ","))
}
func (h *recordingHooks) OnCacheHit(ctx context.Context, keyType string) { h.record("hit:" + keyType) }

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	r := newTestRunner(t)
	ctx := context.Background()
	for range 2 {
		if _, err := r.Execute(ctx, erdModel(), Options{Formats: []string{FormatJSON}}); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"compose:entity", "render:json", "hit:scene", "hit:artifact"}
	if !reflect.DeepEqual(h.events, want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
}

func TestSceneKeyOptsCustomTheme(t *testing.T) {
	a := Options{CustomTheme: &style.Theme{Name: "a", Background: "#000"}}
	b := Options{CustomTheme: &style.Theme{Name: "a", Background: "#fff"}}
	for _, o := range []*Options{&a, &b} {
		if err := o.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
	}
	if a.SceneKeyOpts() == b.SceneKeyOpts() {
		t.Error("different custom themes should key differently")
	}
}
