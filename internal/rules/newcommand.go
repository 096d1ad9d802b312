package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultMacroRecursionLimit is the canonical recursion depth cap (§4.7).
const DefaultMacroRecursionLimit = 16

var newcommandHeadRe = regexp.MustCompile(`\\newcommand\*?\{(\\[A-Za-z]+)\}(?:\[(\d+)\])?`)

type macroDef struct {
	arity int
	body  string
}

// Newcommand is the \newcommand substituter (C9): it scans the fully
// import-expanded, skip-stripped content once for \newcommand{\name}[n]{body}
// definitions (and the starred variant), then rewrites every call site
// \name{arg1}...{argn} with body, substituting #k with argk, recursively
// expanding macros nested in the body up to MaxDepth (default
// DefaultMacroRecursionLimit). Recursion beyond the cap leaves the
// offending call site untouched and appends a non-fatal diagnostic to
// Diagnostics, if non-nil, instead of failing the whole substitution.
type Newcommand struct {
	MaxDepth    int
	Diagnostics *[]string
}

func (n Newcommand) FindSubstitutions(content string) ([]SubstitutionMatch, error) {
	defs, defMatches := scanMacroDefinitions(content)
	maxDepth := n.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMacroRecursionLimit
	}

	excluded := make([]Match, len(defMatches))
	for i, m := range defMatches {
		excluded[i] = m.Match
	}

	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := append([]SubstitutionMatch(nil), defMatches...)
	for _, name := range names {
		def := defs[name]
		for _, call := range findCommandCalls(content, name, def.arity, false) {
			if overlapsAny(call.Begin, call.End, excluded) {
				continue
			}
			args := make([]string, len(call.Args))
			for i, a := range call.Args {
				args[i] = content[a[0]:a[1]]
			}
			expanded, ok := expandCallSite(defs, name, args, maxDepth)
			if !ok {
				if n.Diagnostics != nil {
					*n.Diagnostics = append(*n.Diagnostics, fmt.Sprintf(
						"macro recursion limit (%d) exceeded expanding \\%s; call site left untouched", maxDepth, name))
				}
				continue
			}
			out = append(out, SubstitutionMatch{Match: Match{Begin: call.Begin, End: call.End}, Replacement: expanded})
		}
	}
	return out, nil
}

// scanMacroDefinitions finds every \newcommand definition in content,
// returning the accumulated name -> (arity, body) dictionary (later
// definitions override earlier ones with the same name) and a
// SubstitutionMatch per definition that deletes it from the output.
func scanMacroDefinitions(content string) (map[string]macroDef, []SubstitutionMatch) {
	defs := map[string]macroDef{}
	var matches []SubstitutionMatch
	idx := 0
	for idx <= len(content) {
		loc := newcommandHeadRe.FindStringSubmatchIndex(content[idx:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += idx
			}
		}
		begin := loc[0]
		name := content[loc[2]+1 : loc[3]] // strip leading backslash
		arity := 0
		if loc[4] >= 0 {
			arity, _ = strconv.Atoi(content[loc[4]:loc[5]])
		}
		innerStart, innerEnd, after, ok := matchBraceGroup(content, loc[1])
		if !ok {
			idx = loc[1]
			continue
		}
		defs[name] = macroDef{arity: arity, body: content[innerStart:innerEnd]}
		matches = append(matches, SubstitutionMatch{Match: Match{Begin: begin, End: after}, Replacement: ""})
		idx = after
	}
	return defs, matches
}

func overlapsAny(begin, end int, ranges []Match) bool {
	for _, r := range ranges {
		if begin < r.End && r.Begin < end {
			return true
		}
	}
	return false
}

// expandCallSite expands one top-level call to name with the given
// (unexpanded) argument texts, substituting #k and recursively expanding
// any macro calls that appear as a result, bounded by maxDepth. ok is false
// if the expansion did not converge within maxDepth passes.
func expandCallSite(defs map[string]macroDef, name string, args []string, maxDepth int) (string, bool) {
	body := substituteArgs(defs[name].body, args)
	return expandText(defs, body, maxDepth)
}

// expandText repeatedly substitutes every call to a known macro in text,
// for up to maxDepth passes, stopping early once a pass makes no further
// substitutions (the result has converged). If macro calls remain after
// maxDepth passes, ok is false.
func expandText(defs map[string]macroDef, text string, maxDepth int) (result string, ok bool) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for pass := 0; pass < maxDepth; pass++ {
		type found struct {
			name string
			call braceCall
		}
		var calls []found
		for _, name := range names {
			def := defs[name]
			for _, c := range findCommandCalls(text, name, def.arity, false) {
				calls = append(calls, found{name, c})
			}
		}
		if len(calls) == 0 {
			return text, true
		}
		sort.Slice(calls, func(i, j int) bool { return calls[i].call.Begin < calls[j].call.Begin })

		var sb strings.Builder
		last := 0
		prevEnd := -1
		for _, f := range calls {
			if f.call.Begin < prevEnd {
				continue // overlapping match from a different macro name; first wins
			}
			sb.WriteString(text[last:f.call.Begin])
			args := make([]string, len(f.call.Args))
			for i, a := range f.call.Args {
				args[i] = text[a[0]:a[1]]
			}
			sb.WriteString(substituteArgs(defs[f.name].body, args))
			last = f.call.End
			prevEnd = f.call.End
		}
		sb.WriteString(text[last:])
		text = sb.String()
	}

	for _, name := range names {
		def := defs[name]
		if len(findCommandCalls(text, name, def.arity, false)) > 0 {
			return text, false
		}
	}
	return text, true
}

// substituteArgs replaces each #k (k in 1..9) in body with args[k-1].
func substituteArgs(body string, args []string) string {
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '#' && i+1 < len(body) && body[i+1] >= '1' && body[i+1] <= '9' {
			k := int(body[i+1] - '0')
			if k-1 < len(args) {
				sb.WriteString(args[k-1])
				i++
				continue
			}
		}
		sb.WriteByte(body[i])
	}
	return sb.String()
}
