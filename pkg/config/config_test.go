package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/style"
)

func TestNewDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Server.Address() != ":8080" {
		t.Errorf("Address = %q", cfg.Server.Address())
	}
}

func TestParse(t *testing.T) {
	t.Setenv("DIAGRAMKIT_TEST_REDIS_ADDR", "cache.internal:6380")
	cfg, err := Parse([]byte(`
log:
  level: debug
render:
  theme: mono
  formats: [svg, json]
cache:
  backend: redis
  ttl: 2h
  redis:
    addr: ${DIAGRAMKIT_TEST_REDIS_ADDR}
server:
  port: 9090
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Render.Theme != style.ThemeMono {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.Redis.Addr != "cache.internal:6380" {
		t.Errorf("env not expanded: %q", cfg.Cache.Redis.Addr)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	// untouched sections keep defaults
	if cfg.Layout.LabelBudget != 15 || cfg.Render.PixelsPerUnit != 80 {
		t.Errorf("defaults lost: %+v %+v", cfg.Layout, cfg.Render)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bad level", "log: {level: loud}", "log"},
		{"bad theme", "render: {theme: neon}", "render"},
		{"bad format", "render: {formats: [gif]}", "gif"},
		{"dot needs graphviz", "render: {formats: [dot]}", "dot"},
		{"bad backend", "cache: {backend: memcached}", "cache"},
		{"redis needs addr", "cache: {backend: redis, redis: {addr: ''}}", "cache"},
		{"bad port", "server: {port: 70000}", "server"},
		{"mongo needs uri", "storage: {backend: mongo}", "storage"},
		{"zero box", "layout: {box_width: 0}", "layout"},
		{"bad yaml", "log: [", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil || cfg.Render.Theme != style.ThemeBrand {
		t.Fatalf("empty path: %+v, %v", cfg, err)
	}
	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil || cfg.Cache.Backend != CacheFile {
		t.Fatalf("missing file: %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "diagramkit.yaml")
	if err := os.WriteFile(path, []byte("cache: {backend: none}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadOrDefault(path)
	if err != nil || cfg.Cache.Backend != CacheNone {
		t.Fatalf("existing file: %+v, %v", cfg, err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file should fail")
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Layout.Legend = false
	cfg.Layout.LegendTitle = "Entity Types"
	opts, err := cfg.PipelineOptions()
	if err != nil {
		t.Fatal(err)
	}
	if !opts.NoLegend || opts.LegendTitle != "Entity Types" || opts.Engine != pipeline.EngineNative {
		t.Errorf("opts = %+v", opts)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("converted options invalid: %v", err)
	}

	themePath := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(themePath, []byte("base = \"mono\"\nbackground = \"#fafafa\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Render.ThemeFile = themePath
	opts, err = cfg.PipelineOptions()
	if err != nil {
		t.Fatalf("theme file: %v", err)
	}
	if opts.CustomTheme == nil || opts.CustomTheme.Background != "#fafafa" {
		t.Errorf("custom theme = %+v", opts.CustomTheme)
	}

	cfg.Render.ThemeFile = filepath.Join(t.TempDir(), "nope.toml")
	if _, err := cfg.PipelineOptions(); err == nil {
		t.Error("missing theme file should fail")
	}
}
