package rules

import "strings"

// flachtexMarkerPrefix is the prefix shared by every control marker
// ("%%FLACHTEX-SKIP-START", "%%FLACHTEX-EXPLICIT-IMPORT[...]", ...).
// Although these are syntactically '%' comments, they are import/skip
// directives consumed by other rules later in the pipeline; stripping them
// here (skip rules all run before import rules, §4.6 step 2) would
// silently disable explicit imports whenever comment removal is enabled.
const flachtexMarkerPrefix = "%%FLACHTEX-"

// CommentStripper is the comment-removal rule (§4.2): every maximal run of
// characters from an un-escaped '%' up to, but not including, the next
// newline is removed. The newline itself is kept, because dropping it would
// change LaTeX tokenization across neighboring lines.
//
// A '%' is un-escaped iff it is preceded by an even number of consecutive
// backslashes (possibly zero): each pair of backslashes is itself an
// escaped backslash, so only an odd backslash run actually escapes the '%'.
//
// CommentStripper is implemented as a SkipRule so that stripping comments
// reuses the same Rewriter (internal/rewrite) as every other rule: the
// result is provenance-correct by construction, purely from slicing and
// concatenation.
type CommentStripper struct{}

func (CommentStripper) FindSkips(content string) ([]Match, error) {
	var matches []Match
	i := 0
	for i < len(content) {
		if content[i] == '%' && precedingBackslashesEven(content, i) {
			end := i
			for end < len(content) && content[end] != '\n' {
				end++
			}
			if !strings.HasPrefix(content[i:end], flachtexMarkerPrefix) {
				matches = append(matches, Match{Begin: i, End: end})
			}
			i = end
			continue
		}
		i++
	}
	return matches, nil
}

func precedingBackslashesEven(content string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && content[j] == '\\'; j-- {
		n++
	}
	return n%2 == 0
}
