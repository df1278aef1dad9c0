// Package label formats attribute lists into styled text fragments.
//
// Each attribute becomes one [Fragment]. Primary-key attributes are
// bold, foreign-key attributes italic, everything else plain. Untagged
// attributes whose text ends in "(PK)" or "(FK)" are treated as tagged.
//
// Every fragment fits a fixed display budget measured in terminal cells
// (go-runewidth), so wide glyphs count double. Text over budget is
// replaced by its registered abbreviation when one exists for that exact
// input; otherwise, or when the abbreviation is itself too long, it is
// cut at the budget with no ellipsis. The cut is lossy by contract: a
// fragment promises a bounded width, not a reversible encoding.
package label
