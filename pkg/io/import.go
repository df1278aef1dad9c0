package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
)

// Model encodings.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Formats lists the supported model encodings.
var Formats = []string{FormatJSON, FormatYAML, FormatTOML}

// FormatFromPath infers the model encoding from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.NewRef(errors.ErrCodeInvalidFormat, path, "unsupported model file %q (use .json, .yaml or .toml)", path)
}

// Read decodes a model from r in the given format.
func Read(r io.Reader, format string) (*diagram.Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Decode(data, format)
}

// Decode parses model bytes in the given format.
func Decode(data []byte, format string) (*diagram.Model, error) {
	var m diagram.Model
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			slices.Sort(keys)
			return nil, errors.New(errors.ErrCodeInvalidInput, "decode toml: unknown keys %s", strings.Join(keys, ", "))
		}
	default:
		return nil, errors.NewRef(errors.ErrCodeInvalidFormat, format, "unsupported model format %q", format)
	}
	return &m, nil
}

// Load reads a model file, inferring the format from its extension.
func Load(path string) (*diagram.Model, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "model %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
