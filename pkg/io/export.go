package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
)

// Write encodes m to w in the given format.
func Write(m *diagram.Model, w io.Writer, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(m); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
	default:
		return errors.NewRef(errors.ErrCodeInvalidFormat, format, "unsupported model format %q", format)
	}
	return nil
}

// Save writes m to path, inferring the format from its extension.
func Save(m *diagram.Model, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(m, f, format)
}
