package rules

// Changes implements the substitution rules for the LaTeX `changes` package:
// \added[opts]{X} -> X, \deleted[opts]{X} -> "", \replaced[opts]{X}{Y} -> X.
// Argument parsing is brace-balanced (internal/rules/braces.go), not a naive
// regex, since X or Y may themselves contain braces.
//
// When Prefix is set (the CLI's --changes_prefix), the bracketed option text
// of each call — conventionally an author/id tag such as \added[id=js]{...}
// — is kept as a literal "[opts] " prefix on the substituted text instead of
// being discarded. This is an Open Question in the design (the exact
// semantics of "prefix" were not specified); keeping the option text visible
// is the most useful interpretation for a reviewer reading the flattened
// document, since it surfaces who made the change.
type Changes struct {
	Prefix bool
}

func (c Changes) FindSubstitutions(content string) ([]SubstitutionMatch, error) {
	var out []SubstitutionMatch
	out = append(out, c.findAddedOrReplaced(content, "added", 1)...)
	out = append(out, c.findDeleted(content)...)
	out = append(out, c.findAddedOrReplaced(content, "replaced", 2)...)
	return out, nil
}

func (c Changes) findAddedOrReplaced(content, name string, numArgs int) []SubstitutionMatch {
	calls := findCommandCalls(content, name, numArgs, true)
	out := make([]SubstitutionMatch, 0, len(calls))
	for _, call := range calls {
		kept := call.Args[0]
		text := content[kept[0]:kept[1]]
		repl := text
		if c.Prefix {
			if opt, ok := findOptText(content, call); ok {
				repl = "[" + opt + "] " + text
			}
		}
		sm := SubstitutionMatch{Match: Match{Begin: call.Begin, End: call.End}, Replacement: repl}
		if !c.Prefix {
			sm.InheritOrigin = true
			sm.InheritFrom = Match{Begin: kept[0], End: kept[1]}
		}
		out = append(out, sm)
	}
	return out
}

func (c Changes) findDeleted(content string) []SubstitutionMatch {
	calls := findCommandCalls(content, "deleted", 1, true)
	out := make([]SubstitutionMatch, 0, len(calls))
	for _, call := range calls {
		repl := ""
		if c.Prefix {
			if opt, ok := findOptText(content, call); ok {
				repl = "[" + opt + "]"
			}
		}
		out = append(out, SubstitutionMatch{Match: Match{Begin: call.Begin, End: call.End}, Replacement: repl})
	}
	return out
}

// findOptText returns the text of call's [opts] bracket, if present.
func findOptText(content string, call braceCall) (string, bool) {
	if call.OptBegin < 0 {
		return "", false
	}
	return content[call.OptBegin:call.OptEnd], true
}
