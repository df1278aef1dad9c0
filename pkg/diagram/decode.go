package diagram

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

type attributeFields Attribute

// UnmarshalJSON accepts either "text (PK)" or {"name": ..., "emphasis": ...}.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Attr(s)
		return nil
	}
	var f attributeFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = Attribute(f)
	return nil
}

// UnmarshalYAML accepts a scalar shorthand or a mapping.
func (a *Attribute) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*a = Attr(n.Value)
		return nil
	}
	var f attributeFields
	if err := n.Decode(&f); err != nil {
		return err
	}
	*a = Attribute(f)
	return nil
}

// UnmarshalTOML accepts a string shorthand or an inline table.
func (a *Attribute) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case string:
		*a = Attr(t)
		return nil
	case map[string]any:
		name, _ := t["name"].(string)
		emph, _ := t["emphasis"].(string)
		*a = Attribute{Name: name, Emphasis: Emphasis(emph)}
		return nil
	}
	return fmt.Errorf("attribute: unsupported TOML value %T", v)
}
