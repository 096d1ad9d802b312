// Package rewrite implements the Rewriter (C5): for one traceable string and
// one rule, find all non-overlapping matches in order and substitute each
// with its decision (delete, inline another file, or replace with computed
// text), producing a new traceable string. All slicing and concatenation
// goes through internal/trace, so provenance is correct by construction.
package rewrite

import (
	"sort"

	"github.com/dkrupke/flachtex/internal/ferr"
	"github.com/dkrupke/flachtex/internal/rules"
	"github.com/dkrupke/flachtex/internal/trace"
)

type replacement struct {
	begin, end int
	repl       trace.TraceableString
}

// apply builds ts[0:m0.begin] ++ repl(m0) ++ ts[m0.end:m1.begin] ++ ... ,
// after sorting by begin and rejecting overlaps. An empty match list returns
// ts unchanged.
func apply(ts trace.TraceableString, reps []replacement) (trace.TraceableString, error) {
	if len(reps) == 0 {
		return ts, nil
	}
	sort.Slice(reps, func(i, j int) bool { return reps[i].begin < reps[j].begin })
	for i := 0; i+1 < len(reps); i++ {
		if reps[i].end > reps[i+1].begin {
			line, col := ts.LineCol(reps[i+1].begin)
			return trace.TraceableString{}, ferr.New(ferr.OverlappingMatches, &ferr.Position{Line: line, Col: col},
				"rule matches [%d,%d) and [%d,%d) overlap", reps[i].begin, reps[i].end, reps[i+1].begin, reps[i+1].end)
		}
	}

	result := trace.Empty()
	last := 0
	for _, r := range reps {
		kept, err := ts.Slice(last, r.begin)
		if err != nil {
			return trace.TraceableString{}, err
		}
		result = result.Concat(kept).Concat(r.repl)
		last = r.end
	}
	tail, err := ts.Slice(last, ts.Len())
	if err != nil {
		return trace.TraceableString{}, err
	}
	return result.Concat(tail), nil
}

// Skip applies a SkipRule: every match is deleted.
func Skip(ts trace.TraceableString, rule rules.SkipRule) (trace.TraceableString, error) {
	matches, err := rule.FindSkips(ts.String())
	if err != nil {
		return trace.TraceableString{}, err
	}
	reps := make([]replacement, len(matches))
	for i, m := range matches {
		reps[i] = replacement{begin: m.Begin, end: m.End, repl: trace.Empty()}
	}
	return apply(ts, reps)
}

// Substitution applies a SubstitutionRule: every match is replaced with its
// computed text, attributed to the generated (⊥) source unless the rule
// declared the replacement to inherit the match's own origin.
func Substitution(ts trace.TraceableString, rule rules.SubstitutionRule) (trace.TraceableString, error) {
	matches, err := rule.FindSubstitutions(ts.String())
	if err != nil {
		return trace.TraceableString{}, err
	}
	reps := make([]replacement, len(matches))
	for i, m := range matches {
		var repl trace.TraceableString
		if m.InheritOrigin {
			repl, err = ts.Slice(m.InheritFrom.Begin, m.InheritFrom.End)
			if err != nil {
				return trace.TraceableString{}, err
			}
		} else {
			repl = trace.FromSource(m.Replacement, nil, 0)
		}
		reps[i] = replacement{begin: m.Begin, end: m.End, repl: repl}
	}
	return apply(ts, reps)
}

// Resolver loads the traceable string a matched import site should be
// replaced with (already expanded and skip-stripped by the caller).
type Resolver func(m rules.ImportMatch) (trace.TraceableString, error)

// Import applies a single ImportRule: every match is replaced with
// resolve(m). Callers driving more than one ImportRule over the same pass
// (e.g. the import fixpoint, which must interleave \input and \subimport
// sites in source order per §4.6) should use ImportMatches instead, since
// running each rule to completion in turn does not preserve document order
// across rules.
func Import(ts trace.TraceableString, rule rules.ImportRule, resolve Resolver) (trace.TraceableString, error) {
	matches, err := rule.FindImports(ts.String())
	if err != nil {
		return trace.TraceableString{}, err
	}
	return ImportMatches(ts, matches, resolve)
}

// ImportMatches applies an already-collected list of import matches (from
// one rule or merged from several) in a single pass: matches are sorted by
// Begin, validated for non-overlap, and each is replaced with resolve(m).
// Use this to merge matches from several ImportRules before applying so that
// replacement happens in true source order across rule boundaries, rather
// than one rule's matches all resolving before the next rule's are even
// looked at.
func ImportMatches(ts trace.TraceableString, matches []rules.ImportMatch, resolve Resolver) (trace.TraceableString, error) {
	reps := make([]replacement, len(matches))
	for i, m := range matches {
		repl, err := resolve(m)
		if err != nil {
			return trace.TraceableString{}, err
		}
		reps[i] = replacement{begin: m.Begin, end: m.End, repl: repl}
	}
	return apply(ts, reps)
}
