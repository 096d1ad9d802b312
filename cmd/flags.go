package cmd

import "github.com/spf13/pflag"

// Flag names follow §6's documented external contract literally
// (--to_json, --comments/--remove_comments, --changes_prefix, ...), not a
// kebab-cased house style, since these are the CLI's wire-compatible
// surface toward callers that already script against the spec.

func addToJSONFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "to_json", false, "emit the JSON envelope instead of flat text")
}

func addRemoveCommentsFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "remove_comments", false, "strip unescaped LaTeX comments before output")
	fs.BoolVar(v, "comments", false, "alias for --remove_comments")
}

func addAttachFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "attach", false, "include raw source contents under \"sources\" (requires --to_json)")
}

func addChangesFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "changes", false, "resolve \\added/\\deleted/\\replaced from the changes package")
}

func addChangesPrefixFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "changes_prefix", false, "keep the changes package's bracketed option text as a visible prefix (requires --changes)")
}

func addTodosFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "todos", false, "remove \\todo{...} annotations")
}

func addNewcommandFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "newcommand", false, "expand \\newcommand macro call sites")
}

func addWatchFlag(fs *pflag.FlagSet, v *bool) {
	fs.BoolVar(v, "watch", false, "re-flatten whenever a discovered source file changes")
}

func addIgnoreFlag(fs *pflag.FlagSet, v *[]string) {
	fs.StringSliceVar(v, "ignore", nil, "glob pattern(s) of include paths to never resolve (e.g. 'build/**'). Can be repeated.")
}
