package diagram

import (
	"strings"

	"github.com/matzehuels/diagramkit/pkg/geom"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Emphasis tags an attribute for typographic emphasis.
type Emphasis string

const (
	EmphasisNone    Emphasis = ""
	EmphasisPrimary Emphasis = "primary"
	EmphasisForeign Emphasis = "foreign"
)

// Markers recognized at the end of untagged attribute text.
const (
	PrimaryMarker = "(PK)"
	ForeignMarker = "(FK)"
)

// Attribute is one row of a node's attribute list.
type Attribute struct {
	Name     string   `json:"name" bson:"name" yaml:"name" toml:"name"`
	Emphasis Emphasis `json:"emphasis,omitempty" bson:"emphasis,omitempty" yaml:"emphasis,omitempty" toml:"emphasis,omitempty"`
}

// Attr builds an attribute from shorthand text, inferring emphasis from a
// trailing (PK) or (FK) marker.
func Attr(text string) Attribute {
	return Attribute{Name: text, Emphasis: InferEmphasis(text)}
}

// InferEmphasis returns the emphasis implied by a trailing key marker.
func InferEmphasis(text string) Emphasis {
	t := strings.TrimSpace(text)
	switch {
	case strings.HasSuffix(t, PrimaryMarker):
		return EmphasisPrimary
	case strings.HasSuffix(t, ForeignMarker):
		return EmphasisForeign
	}
	return EmphasisNone
}

// Node is a positioned entity: a table in an entity diagram or a
// component in an architecture map.
type Node struct {
	ID         string      `json:"id" bson:"id" yaml:"id" toml:"id"`
	Category   string      `json:"category,omitempty" bson:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Position   geom.Point  `json:"position" bson:"position" yaml:"position" toml:"position"`
	Attributes []Attribute `json:"attributes,omitempty" bson:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	From  string `json:"from" bson:"from" yaml:"from" toml:"from"`
	To    string `json:"to" bson:"to" yaml:"to" toml:"to"`
	Label string `json:"label,omitempty" bson:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// SelfLoop reports whether the edge starts and ends at the same node.
func (e Edge) SelfLoop() bool { return e.From == e.To }

// Lane is the horizontal band of one actor in a swimlane diagram.
// The actor doubles as the lane's style category.
type Lane struct {
	Actor string `json:"actor" bson:"actor" yaml:"actor" toml:"actor"`
	Row   int    `json:"row" bson:"row" yaml:"row" toml:"row"`
}

// Step is one marker along a flow.
type Step struct {
	Actor    string  `json:"actor" bson:"actor" yaml:"actor" toml:"actor"`
	Text     string  `json:"text" bson:"text" yaml:"text" toml:"text"`
	X        float64 `json:"x" bson:"x" yaml:"x" toml:"x"`
	Decision bool    `json:"decision,omitempty" bson:"decision,omitempty" yaml:"decision,omitempty" toml:"decision,omitempty"`
}

// Flow is an ordered step sequence. Steps are connected in slice order.
type Flow struct {
	Title       string     `json:"title,omitempty" bson:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	TitleAnchor geom.Point `json:"title_anchor" bson:"title_anchor" yaml:"title_anchor" toml:"title_anchor"`
	Steps       []Step     `json:"steps" bson:"steps" yaml:"steps" toml:"steps"`
}

// Model is the complete input of one composition.
type Model struct {
	Title   string                 `json:"title,omitempty" bson:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Nodes   []Node                 `json:"nodes,omitempty" bson:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Edges   []Edge                 `json:"edges,omitempty" bson:"edges,omitempty" yaml:"edges,omitempty" toml:"edges,omitempty"`
	Lanes   []Lane                 `json:"lanes,omitempty" bson:"lanes,omitempty" yaml:"lanes,omitempty" toml:"lanes,omitempty"`
	Flows   []Flow                 `json:"flows,omitempty" bson:"flows,omitempty" yaml:"flows,omitempty" toml:"flows,omitempty"`
	Palette map[string]style.Style `json:"palette,omitempty" bson:"palette,omitempty" yaml:"palette,omitempty" toml:"palette,omitempty"`
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (Node, bool) {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Lane returns the lane registered for actor.
func (m *Model) Lane(actor string) (Lane, bool) {
	for _, l := range m.Lanes {
		if l.Actor == actor {
			return l, true
		}
	}
	return Lane{}, false
}

// HasDecision reports whether any flow contains a decision step.
func (m *Model) HasDecision() bool {
	for _, f := range m.Flows {
		for _, s := range f.Steps {
			if s.Decision {
				return true
			}
		}
	}
	return false
}

// Kind describes which diagram families the model contains.
func (m *Model) Kind() string {
	switch {
	case len(m.Nodes) > 0 && len(m.Flows) > 0:
		return "mixed"
	case len(m.Flows) > 0:
		return "swimlane"
	case len(m.Edges) > 0:
		return "entity"
	case len(m.Nodes) > 0:
		return "map"
	}
	return "empty"
}
