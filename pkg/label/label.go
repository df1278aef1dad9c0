package label

import (
	"maps"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/diagramkit/pkg/diagram"
)

// DefaultBudget is the maximum display width of a fragment.
const DefaultBudget = 15

// DefaultAbbreviations holds the stock short forms for long names that
// show up in architecture diagrams. Keys must be wider than
// DefaultBudget; shorter inputs never reach the lookup.
var DefaultAbbreviations = map[string]string{
	"Google Drive API":  "Drive API",
	"external_services": "Ext Services",
}

// Fragment is one formatted attribute.
type Fragment struct {
	Text     string           `json:"text"`
	Emphasis diagram.Emphasis `json:"emphasis,omitempty"`
	Source   string           `json:"-"` // input text before fitting
	Overflow bool             `json:"-"` // Source exceeded the budget
}

// Bold reports whether the fragment renders bold.
func (f Fragment) Bold() bool { return f.Emphasis == diagram.EmphasisPrimary }

// Italic reports whether the fragment renders italic.
func (f Fragment) Italic() bool { return f.Emphasis == diagram.EmphasisForeign }

// Formatter turns attributes into fragments. The zero value is not
// usable; call [New].
type Formatter struct {
	budget int
	abbrev map[string]string
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithBudget sets the display budget. Values below 1 are ignored.
func WithBudget(cells int) Option {
	return func(f *Formatter) {
		if cells > 0 {
			f.budget = cells
		}
	}
}

// WithAbbreviation registers a short form for an exact input.
func WithAbbreviation(full, short string) Option {
	return func(f *Formatter) { f.abbrev[full] = short }
}

// WithAbbreviations registers several short forms.
func WithAbbreviations(m map[string]string) Option {
	return func(f *Formatter) { maps.Copy(f.abbrev, m) }
}

// New creates a formatter with the default budget and abbreviations.
func New(opts ...Option) *Formatter {
	f := &Formatter{budget: DefaultBudget, abbrev: maps.Clone(DefaultAbbreviations)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Budget returns the configured display budget.
func (f *Formatter) Budget() int { return f.budget }

// Format converts attributes into fragments, preserving order.
func (f *Formatter) Format(attrs []diagram.Attribute) []Fragment {
	out := make([]Fragment, 0, len(attrs))
	for _, a := range attrs {
		text, over := f.Fit(a.Name)
		emph := a.Emphasis
		if emph == diagram.EmphasisNone {
			emph = diagram.InferEmphasis(a.Name)
		}
		out = append(out, Fragment{Text: text, Emphasis: emph, Source: a.Name, Overflow: over})
	}
	return out
}

// Fit bounds text to the budget and reports whether it had to change.
func (f *Formatter) Fit(text string) (string, bool) {
	if runewidth.StringWidth(text) <= f.budget {
		return text, false
	}
	if short, ok := f.abbrev[text]; ok {
		text = short
	}
	return runewidth.Truncate(text, f.budget, ""), true
}

// Width returns the display width of s in cells.
func Width(s string) int { return runewidth.StringWidth(s) }
