package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "models/erd.yaml", "models/erd"},
		{"", "erd", "erd"},
		{"out/erd.svg", "erd.yaml", "out/erd"},
		{"out/erd.PNG", "erd.yaml", "out/erd"},
		{"out/erd.dot", "erd.yaml", "out/erd"},
		{"out/erd", "erd.yaml", "out/erd"},
		{"out/erd.v2", "erd.yaml", "out/erd.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		input   string
		output  string
		dir     bool
		want    map[string]string
	}{
		{
			name:    "derived from input",
			formats: []string{"svg", "png"},
			input:   "erd.yaml",
			want:    map[string]string{"svg": "erd.svg", "png": "erd.png"},
		},
		{
			name:    "single format explicit file",
			formats: []string{"svg"},
			input:   "erd.yaml",
			output:  "diagram.image",
			want:    map[string]string{"svg": "diagram.image"},
		},
		{
			name:    "multiple formats base path",
			formats: []string{"svg", "json"},
			input:   "erd.yaml",
			output:  "out/diagram.svg",
			want:    map[string]string{"svg": "out/diagram.svg", "json": "out/diagram.json"},
		},
		{
			name:    "directory output",
			formats: []string{"svg"},
			input:   "models/flows.toml",
			output:  "out",
			dir:     true,
			want:    map[string]string{"svg": filepath.Join("out", "flows") + ".svg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.input, tt.output, tt.dir)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")},
		formats:   []string{"svg", "json"},
		input:     "erd.yaml",
		output:    filepath.Join(dir, "nested", "erd"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "nested", "erd.svg"), filepath.Join(dir, "nested", "erd.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg = %q, %v", data, err)
	}

	_, err = writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{},
		formats:   []string{"pdf"},
		input:     "erd.yaml",
		output:    filepath.Join(dir, "missing"),
	})
	if err == nil {
		t.Error("writeArtifacts() with missing format should fail")
	}
}
