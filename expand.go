// Package flachtex flattens a LaTeX document tree into one provenance
// preserving string: every byte of the output remembers which input file
// and offset it came from, so diagnostics and downstream tools can point
// back at the original source even after comments are stripped, files are
// inlined, and macros are expanded.
package flachtex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dkrupke/flachtex/internal/ferr"
	"github.com/dkrupke/flachtex/internal/finder"
	"github.com/dkrupke/flachtex/internal/rewrite"
	"github.com/dkrupke/flachtex/internal/rules"
	"github.com/dkrupke/flachtex/internal/trace"
)

// Structure is the Structure Recorder (C8): a side output mapping each
// source id discovered during one expansion run to its raw content and the
// set of sources it directly includes. Entries are created on first
// successful fetch and persist for the lifetime of the run.
type Structure struct {
	// RunID identifies one expansion run, so that a caller comparing the
	// structure of two runs over the same root (e.g. before/after an edit,
	// or two --watch reflattens) can tell them apart without relying on
	// wall-clock time.
	RunID   string
	Sources map[string]*SourceEntry
}

// SourceEntry is one node of the structure graph.
type SourceEntry struct {
	Content  string
	Includes []string // direct includes, in source order; duplicates allowed
}

func newStructure() *Structure {
	return &Structure{RunID: uuid.NewString(), Sources: map[string]*SourceEntry{}}
}

func (s *Structure) record(sourceID, content string) *SourceEntry {
	e, ok := s.Sources[sourceID]
	if !ok {
		e = &SourceEntry{Content: content}
		s.Sources[sourceID] = e
	}
	return e
}

func (s *Structure) addEdge(from, to string) {
	if e, ok := s.Sources[from]; ok {
		e.Includes = append(e.Includes, to)
	}
}

// Options configures one expansion run. RuleSet's Import list is consulted
// during the fixpoint loop of step 3; Skip is applied once up front; the
// remaining substitution rules (changes, todos, newcommand, ...) are applied
// once the import fixpoint is reached.
type Options struct {
	Finder  *finder.Finder
	RuleSet rules.Set
}

// expander owns the mutable state of one expand() invocation: the ancestor
// stack for cycle detection, the structure recorder, and a cache of fully
// expanded, skip-stripped traceable strings keyed by source id so that a
// file imported from more than one place is only loaded and expanded once
// (§4.6: "contents are loaded once per source_id and the cached traceable
// string is reused").
type expander struct {
	opts      Options
	structure *Structure
	ancestors []string
	expanded  map[string]trace.TraceableString
}

// Expand is the Import Expander (C7) entry point: expand(root_path) ->
// (ts, structure).
func Expand(rootPath string, opts Options) (trace.TraceableString, *Structure, error) {
	e := &expander{
		opts:      opts,
		structure: newStructure(),
		expanded:  map[string]trace.TraceableString{},
	}
	ts, err := e.expandFile(rootPath, "")
	if err != nil {
		return trace.TraceableString{}, nil, err
	}
	final, err := applySubstitutions(ts, opts.RuleSet.Substitution)
	if err != nil {
		return trace.TraceableString{}, nil, err
	}
	return final, e.structure, nil
}

// expandFile fetches one source (relative to callingSource, empty for the
// root), strips skip regions, and resolves its import fixpoint. It does not
// apply substitution rules: per §4.6 step 4, those run exactly once, on the
// fully assembled document.
func (e *expander) expandFile(reference, callingSource string) (trace.TraceableString, error) {
	sourceID, content, err := e.opts.Finder.Fetch(reference, callingSource)
	if err != nil {
		return trace.TraceableString{}, err
	}

	if cached, ok := e.expanded[sourceID]; ok {
		return cached, nil
	}

	if err := e.checkCycle(sourceID); err != nil {
		return trace.TraceableString{}, err
	}
	e.structure.record(sourceID, content)
	logrus.WithFields(logrus.Fields{"run": e.structure.RunID, "source": sourceID, "depth": len(e.ancestors)}).Debug("expanding source")
	e.ancestors = append(e.ancestors, sourceID)
	defer func() { e.ancestors = e.ancestors[:len(e.ancestors)-1] }()

	ts := trace.FromSource(content, &sourceID, 0)

	for _, skip := range e.opts.RuleSet.Skip {
		ts, err = rewrite.Skip(ts, skip)
		if err != nil {
			return trace.TraceableString{}, err
		}
	}

	ts, err = e.importFixpoint(ts, sourceID)
	if err != nil {
		return trace.TraceableString{}, err
	}

	e.expanded[sourceID] = ts
	return ts, nil
}

// importFixpoint repeatedly applies every import rule until a pass produces
// no matches. Within one pass, matches from every ImportRule are collected
// first and merged into one Begin-ordered list (rewrite.ImportMatches),
// rather than running each rule to completion before the next is even
// examined, so that e.g. an \input and an interleaved \subimport expand in
// true left-to-right, top-to-bottom source order as required by §4.6,
// regardless of which rule matched which site. A pass always strictly
// reduces the number of unexpanded import sites (each match is replaced by
// content with no matches of the same rule, since the replacement itself
// was already fully expanded), so the loop terminates; ImportCycle aborts
// it early if expansion would recurse forever.
func (e *expander) importFixpoint(ts trace.TraceableString, callingSourceID string) (trace.TraceableString, error) {
	for {
		var matches []rules.ImportMatch
		for _, rule := range e.opts.RuleSet.Import {
			found, err := rule.FindImports(ts.String())
			if err != nil {
				return trace.TraceableString{}, err
			}
			matches = append(matches, found...)
		}
		if len(matches) == 0 {
			return ts, nil
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].Begin < matches[j].Begin })

		resolve := func(m rules.ImportMatch) (trace.TraceableString, error) {
			child, err := e.expandFile(m.PathExpr, callingSourceID)
			if err != nil {
				return trace.TraceableString{}, err
			}
			childSourceID, _, ferr2 := e.opts.Finder.Fetch(m.PathExpr, callingSourceID)
			if ferr2 == nil {
				e.structure.addEdge(callingSourceID, childSourceID)
			}
			return child, nil
		}
		var err error
		ts, err = rewrite.ImportMatches(ts, matches, resolve)
		if err != nil {
			return trace.TraceableString{}, err
		}
	}
}

func (e *expander) checkCycle(sourceID string) error {
	for _, a := range e.ancestors {
		if a == sourceID {
			cycle := append(append([]string(nil), e.ancestors...), sourceID)
			return ferr.New(ferr.ImportCycle, nil, "import cycle: %s", strings.Join(cycle, " -> "))
		}
	}
	return nil
}

func applySubstitutions(ts trace.TraceableString, subs []rules.SubstitutionRule) (trace.TraceableString, error) {
	var err error
	for _, rule := range subs {
		ts, err = rewrite.Substitution(ts, rule)
		if err != nil {
			return trace.TraceableString{}, fmt.Errorf("substitution pass: %w", err)
		}
	}
	return ts, nil
}
