package layout

import (
	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/geom"
)

// Default anchor box size in layout units.
const (
	DefaultBoxWidth  = 1.6
	DefaultBoxHeight = 1.2
)

// Config holds the fixed anchor box dimensions.
type Config struct {
	BoxWidth  float64 `json:"box_width" yaml:"box_width"`
	BoxHeight float64 `json:"box_height" yaml:"box_height"`
}

// DefaultConfig returns the stock 1.6 x 1.2 box.
func DefaultConfig() Config {
	return Config{BoxWidth: DefaultBoxWidth, BoxHeight: DefaultBoxHeight}
}

// WithDefaults fills zero dimensions from [DefaultConfig].
func (c Config) WithDefaults() Config {
	if c.BoxWidth <= 0 {
		c.BoxWidth = DefaultBoxWidth
	}
	if c.BoxHeight <= 0 {
		c.BoxHeight = DefaultBoxHeight
	}
	return c
}

// Place maps each node id to its anchor box. Duplicate ids keep the
// last box; validate the model first.
func Place(nodes []diagram.Node, cfg Config) map[string]geom.Box {
	cfg = cfg.WithDefaults()
	boxes := make(map[string]geom.Box, len(nodes))
	for _, n := range nodes {
		boxes[n.ID] = geom.BoxAround(n.Position, cfg.BoxWidth, cfg.BoxHeight)
	}
	return boxes
}

// Group is the ids of all nodes sharing a category.
type Group struct {
	Category string
	IDs      []string
}

// GroupByCategory buckets node ids by category. Groups appear in the
// order their category is first seen; ids keep model order.
func GroupByCategory(nodes []diagram.Node) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, n := range nodes {
		i, ok := index[n.Category]
		if !ok {
			i = len(groups)
			index[n.Category] = i
			groups = append(groups, Group{Category: n.Category})
		}
		groups[i].IDs = append(groups[i].IDs, n.ID)
	}
	return groups
}
