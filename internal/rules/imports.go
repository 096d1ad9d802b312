package rules

import "regexp"

var (
	inputIncludeRe   = regexp.MustCompile(`\\(?:input|include)\{([^\s{}]+)\}`)
	subimportRe      = regexp.MustCompile(`\\subimport\*?\{([^\s{}]+)\}\{([^\s{}]+)\}`)
	explicitImportRe = regexp.MustCompile(`(?m)^[ \t]*%%FLACHTEX-EXPLICIT-IMPORT\[([^\]]+)\][ \t]*$`)
)

// InputInclude matches \input{path} and \include{path}; path may omit the
// .tex suffix, and braces may not contain whitespace.
type InputInclude struct{}

func (InputInclude) FindImports(content string) ([]ImportMatch, error) {
	locs := inputIncludeRe.FindAllStringSubmatchIndex(content, -1)
	out := make([]ImportMatch, 0, len(locs))
	for _, loc := range locs {
		out = append(out, ImportMatch{
			Match:    Match{Begin: loc[0], End: loc[1]},
			PathExpr: content[loc[2]:loc[3]],
		})
	}
	return out, nil
}

// Subimport matches \subimport{dir}{file} and \subimport*{dir}{file}. The
// effective path is dir/file[.tex], resolved (like every other import rule)
// relative to the calling file by the finder's resolution order.
type Subimport struct{}

func (Subimport) FindImports(content string) ([]ImportMatch, error) {
	locs := subimportRe.FindAllStringSubmatchIndex(content, -1)
	out := make([]ImportMatch, 0, len(locs))
	for _, loc := range locs {
		dir := content[loc[2]:loc[3]]
		file := content[loc[4]:loc[5]]
		out = append(out, ImportMatch{
			Match:    Match{Begin: loc[0], End: loc[1]},
			PathExpr: dir + "/" + file,
		})
	}
	return out, nil
}

// ExplicitImport matches %%FLACHTEX-EXPLICIT-IMPORT[path] at the start of a
// line. The matched region excludes the marker line's trailing newline, so
// that surrounding line structure survives the replacement the same way it
// does for FlachtexSkip.
type ExplicitImport struct{}

func (ExplicitImport) FindImports(content string) ([]ImportMatch, error) {
	locs := explicitImportRe.FindAllStringSubmatchIndex(content, -1)
	out := make([]ImportMatch, 0, len(locs))
	for _, loc := range locs {
		out = append(out, ImportMatch{
			Match:    Match{Begin: loc[0], End: loc[1]},
			PathExpr: content[loc[2]:loc[3]],
		})
	}
	return out, nil
}
