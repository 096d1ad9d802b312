// Package rules implements the canonical rule set of §4.3: skip rules
// (delete a region), import rules (replace a region with another file's
// contents), and substitution rules (replace a region with computed text).
// A rule is a pure function of the input content: all matches of one rule
// are computed up front from the content string, never from a running
// cursor, so the rewriter (internal/rewrite) can sort and validate them
// before applying any of them.
package rules

// Match is a half-open byte range [Begin, End) within a content string.
type Match struct {
	Begin, End int
}

// SkipRule finds regions of content to delete outright.
type SkipRule interface {
	FindSkips(content string) ([]Match, error)
}

// ImportMatch is one matched import site: the region to replace and the
// author-written path expression. Rule-specific parts such as the
// \subimport directory are already folded into PathExpr.
type ImportMatch struct {
	Match
	PathExpr string
}

// ImportRule finds import directives whose matched region should be
// replaced with the (already expanded) contents of another file.
type ImportRule interface {
	FindImports(content string) ([]ImportMatch, error)
}

// SubstitutionMatch is one matched substitution site together with its
// precomputed replacement text. InheritOrigin, when true, tells the
// rewriter to attribute the replacement to the match's own origin rather
// than to the generated (⊥) source — used by rules whose replacement is a
// verbatim sub-slice of the match (e.g. \added{X} -> X).
type SubstitutionMatch struct {
	Match
	Replacement   string
	InheritOrigin bool
	InheritFrom   Match // when InheritOrigin, the sub-range of Match that Replacement equals
}

// SubstitutionRule finds regions of content to replace with computed text.
type SubstitutionRule interface {
	FindSubstitutions(content string) ([]SubstitutionMatch, error)
}

// Set is the registry of rules driving one expansion: three ordered lists,
// applied skip, then import (to a fixpoint), then substitution, per §4.6.
type Set struct {
	Skip         []SkipRule
	Import       []ImportRule
	Substitution []SubstitutionRule
}
