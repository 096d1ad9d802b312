package rules

import (
	"regexp"
	"sort"

	"github.com/dkrupke/flachtex/internal/ferr"
)

var (
	skipStartRe = regexp.MustCompile(`(?m)^[ \t]*%%FLACHTEX-SKIP-START[ \t]*$`)
	skipStopRe  = regexp.MustCompile(`(?m)^[ \t]*%%FLACHTEX-SKIP-STOP[ \t]*$`)
)

// FlachtexSkip is the canonical skip rule: regions delimited by
// %%FLACHTEX-SKIP-START ... %%FLACHTEX-SKIP-STOP, each at the start of a
// line (leading whitespace allowed). Nesting is not supported; a second
// START before a STOP is a SkipMismatch error, and so is a STOP with no
// preceding START or a START with no following STOP.
//
// The matched region runs from the first character of the START line
// through the last character of the STOP marker text, deliberately
// excluding the STOP line's trailing newline: this leaves exactly one line
// break where the skipped block used to be, so that token adjacency across
// the block boundary is not silently fused.
type FlachtexSkip struct{}

type skipEvent struct {
	isStart  bool
	lineBeg  int // start of the marker's own line
	matchEnd int // for STOP: position right before the marker's own newline
}

func (FlachtexSkip) FindSkips(content string) ([]Match, error) {
	starts := skipStartRe.FindAllStringIndex(content, -1)
	stops := skipStopRe.FindAllStringIndex(content, -1)

	events := make([]skipEvent, 0, len(starts)+len(stops))
	for _, m := range starts {
		events = append(events, skipEvent{isStart: true, lineBeg: m[0]})
	}
	for _, m := range stops {
		events = append(events, skipEvent{isStart: false, lineBeg: m[0], matchEnd: m[1]})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].lineBeg < events[j].lineBeg })

	var matches []Match
	awaitingStop := false
	pendingStart := 0
	for _, ev := range events {
		switch {
		case !awaitingStop && ev.isStart:
			pendingStart = ev.lineBeg
			awaitingStop = true
		case !awaitingStop && !ev.isStart:
			return nil, ferr.New(ferr.SkipMismatch, nil, "FLACHTEX-SKIP-STOP at byte %d has no matching START", ev.lineBeg)
		case awaitingStop && ev.isStart:
			return nil, ferr.New(ferr.SkipMismatch, nil, "nested FLACHTEX-SKIP-START at byte %d before matching STOP", ev.lineBeg)
		case awaitingStop && !ev.isStart:
			matches = append(matches, Match{Begin: pendingStart, End: ev.matchEnd})
			awaitingStop = false
		}
	}
	if awaitingStop {
		return nil, ferr.New(ferr.SkipMismatch, nil, "FLACHTEX-SKIP-START at byte %d has no matching STOP", pendingStart)
	}
	return matches, nil
}
