package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/diagramkit/pkg/pipeline"
)

// knownExt reports whether ext (with dot) is an output format extension.
func knownExt(ext string) bool {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	for _, formats := range pipeline.ValidFormats {
		for _, f := range formats {
			if f == ext {
				return true
			}
		}
	}
	return false
}

// basePath derives the base output path from the output and input file
// paths. An empty output strips the input extension; a format extension
// on output is stripped too, so "out.svg" and "out" both give "out".
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if ext := filepath.Ext(output); knownExt(ext) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format written to an
// explicit output keeps that path verbatim; everything else gets
// base.format. When dir is set the output names a directory and the base
// comes from the input file name.
func outputPaths(formats []string, input, output string, dir bool) map[string]string {
	paths := make(map[string]string, len(formats))
	if !dir && output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	if dir {
		name := filepath.Base(input)
		base = filepath.Join(output, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	dir       bool
}

// writeArtifacts writes every requested format and returns the written
// paths in format order.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	paths := outputPaths(p.formats, p.input, p.output, p.dir)
	written := make([]string, 0, len(p.formats))
	for _, f := range p.formats {
		data, ok := p.artifacts[f]
		if !ok {
			return written, fmt.Errorf("no %s output produced", f)
		}
		path := paths[f]
		if d := filepath.Dir(path); d != "." {
			if err := os.MkdirAll(d, 0o755); err != nil {
				return written, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
