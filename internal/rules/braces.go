package rules

import "regexp"

// braceCall is one matched `\name[opts]{arg1}...{argn}` call site.
type braceCall struct {
	Begin, End       int      // span of the whole call, from \ through the final closing brace
	Args             [][2]int // [start,end) of each argument's inner text, braces excluded
	OptBegin, OptEnd int      // [start,end) of the bracketed option's inner text, or (-1,-1) if absent
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// skipOpt advances past a bracket-delimited optional argument [ ... ] at i,
// if present, returning the position right after the closing bracket.
// Brackets do not nest in LaTeX optional arguments; the first unescaped ']'
// closes it.
func skipOpt(content string, i int) int {
	if i >= len(content) || content[i] != '[' {
		return i
	}
	for j := i + 1; j < len(content); j++ {
		if content[j] == '\\' && j+1 < len(content) {
			j++
			continue
		}
		if content[j] == ']' {
			return j + 1
		}
	}
	return i
}

// matchBraceGroup requires content[i] == '{' and returns the inner text span
// [innerStart,innerEnd), the position right after the matching close brace,
// and true — or false if i is not an opening brace or the group never
// closes. Braces escaped with a backslash do not count toward balance.
func matchBraceGroup(content string, i int) (innerStart, innerEnd, after int, ok bool) {
	if i >= len(content) || content[i] != '{' {
		return 0, 0, 0, false
	}
	depth := 0
	for j := i; j < len(content); j++ {
		c := content[j]
		if c == '\\' && j+1 < len(content) {
			j++
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, j, j + 1, true
			}
		}
	}
	return 0, 0, 0, false
}

// findCommandCalls scans content for `\name` calls (respecting the LaTeX
// name-boundary rule: \name must not be followed by another letter, or it
// would be a different, longer command name), each optionally followed by a
// [bracketed option] and then exactly numArgs brace-balanced arguments. A
// call whose following braces don't satisfy numArgs (wrong arity) is not
// reported as a match: the call site is left untouched by the caller.
func findCommandCalls(content, name string, numArgs int, allowOpt bool) []braceCall {
	re := regexp.MustCompile(`\\` + regexp.QuoteMeta(name))
	var calls []braceCall
	idx := 0
	for idx <= len(content) {
		loc := re.FindStringIndex(content[idx:])
		if loc == nil {
			break
		}
		begin := idx + loc[0]
		end := idx + loc[1]
		if end < len(content) && isLetter(content[end]) {
			idx = end
			continue
		}
		optBegin, optEnd := -1, -1
		pos := end
		if allowOpt && pos < len(content) && content[pos] == '[' {
			after := skipOpt(content, pos)
			if after > pos {
				optBegin, optEnd = pos+1, after-1
				pos = after
			}
		}
		args := make([][2]int, 0, numArgs)
		matched := true
		for a := 0; a < numArgs; a++ {
			innerStart, innerEnd, after, ok := matchBraceGroup(content, pos)
			if !ok {
				matched = false
				break
			}
			args = append(args, [2]int{innerStart, innerEnd})
			pos = after
		}
		if !matched {
			idx = end
			continue
		}
		calls = append(calls, braceCall{Begin: begin, End: pos, Args: args, OptBegin: optBegin, OptEnd: optEnd})
		idx = pos
	}
	return calls
}
