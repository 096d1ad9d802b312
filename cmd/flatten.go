package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dkrupke/flachtex"
	"github.com/dkrupke/flachtex/internal/finder"
	"github.com/dkrupke/flachtex/internal/present"
	"github.com/dkrupke/flachtex/internal/rules"

	"github.com/fsnotify/fsnotify"
)

type flattenParams struct {
	toJSON         bool
	removeComments bool
	attach         bool
	changes        bool
	changesPrefix  bool
	todos          bool
	newcommand     bool
	watch          bool
	ignore         []string
}

var params = flattenParams{}

var flattenCommand = &cobra.Command{
	Use:   "flatten <path>",
	Short: "Flatten a root .tex file and its import tree",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		os.Exit(runFlatten(args[0], &params, os.Stdout, os.Stderr))
	},
}

func init() {
	fs := flattenCommand.Flags()
	addToJSONFlag(fs, &params.toJSON)
	addRemoveCommentsFlag(fs, &params.removeComments)
	addAttachFlag(fs, &params.attach)
	addChangesFlag(fs, &params.changes)
	addChangesPrefixFlag(fs, &params.changesPrefix)
	addTodosFlag(fs, &params.todos)
	addNewcommandFlag(fs, &params.newcommand)
	addWatchFlag(fs, &params.watch)
	addIgnoreFlag(fs, &params.ignore)
}

func buildRuleSet(p *flattenParams) rules.Set {
	rs := rules.Set{
		Skip:   []rules.SkipRule{rules.FlachtexSkip{}},
		Import: []rules.ImportRule{rules.InputInclude{}, rules.Subimport{}, rules.ExplicitImport{}},
	}
	if p.removeComments {
		rs.Skip = append(rs.Skip, rules.CommentStripper{})
	}
	if p.changes {
		rs.Substitution = append(rs.Substitution, rules.Changes{Prefix: p.changesPrefix})
	}
	if p.todos {
		rs.Substitution = append(rs.Substitution, rules.Todo{})
	}
	if p.newcommand {
		var diagnostics []string
		rs.Substitution = append(rs.Substitution, rules.Newcommand{Diagnostics: &diagnostics})
	}
	return rs
}

func runFlatten(path string, p *flattenParams, stdout, stderr io.Writer) int {
	if p.attach && !p.toJSON {
		fmt.Fprintln(stderr, "--attach requires --to_json")
		return exitUsageError
	}
	if p.changesPrefix && !p.changes {
		fmt.Fprintln(stderr, "--changes_prefix requires --changes")
		return exitUsageError
	}

	if err := flattenOnce(path, p, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return exitCodeFor(err)
	}
	if !p.watch {
		return exitOK
	}
	return watchAndReflatten(path, p, stdout, stderr)
}

func flattenOnce(path string, p *flattenParams, stdout, stderr io.Writer) error {
	f, err := finder.NewOSFinder(path, p.ignore)
	if err != nil {
		return err
	}
	ts, structure, err := flachtex.Expand(path, flachtex.Options{Finder: f, RuleSet: buildRuleSet(p)})
	if err != nil {
		return err
	}

	if !p.toJSON {
		fmt.Fprint(stdout, ts.String())
		return nil
	}

	sources := map[string]string{}
	for id, entry := range structure.Sources {
		sources[id] = entry.Content
	}
	env := present.Build(ts, sources, present.Options{Attach: p.attach})
	return present.JSON(stdout, env)
}

// watchAndReflatten re-runs flattenOnce whenever a file discovered during
// the previous run changes, in the manner of the teacher's own
// runtime/cmd --watch support, until the process is interrupted.
func watchAndReflatten(path string, p *flattenParams, stdout, stderr io.Writer) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitIOError
	}
	defer watcher.Close()

	if err := addWatchedFiles(watcher, path, p); err != nil {
		fmt.Fprintln(stderr, err)
		return exitIOError
	}

	for event := range watcher.Events {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			continue
		}
		logrus.WithField("file", event.Name).Info("source changed, reflattening")
		if err := flattenOnce(path, p, stdout, stderr); err != nil {
			logrus.WithError(err).Error("reflatten failed")
			continue
		}
		if err := addWatchedFiles(watcher, path, p); err != nil {
			logrus.WithError(err).Warn("could not refresh watch list")
		}
	}
	return exitOK
}

func addWatchedFiles(watcher *fsnotify.Watcher, path string, p *flattenParams) error {
	f, err := finder.NewOSFinder(path, p.ignore)
	if err != nil {
		return err
	}
	_, structure, err := flachtex.Expand(path, flachtex.Options{Finder: f, RuleSet: buildRuleSet(p)})
	if err != nil {
		return err
	}
	for id := range structure.Sources {
		_ = watcher.Add(id) // best-effort: already-watched files return an error we can ignore
	}
	return nil
}
