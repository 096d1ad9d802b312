package cmd

import "github.com/dkrupke/flachtex/internal/ferr"

// exit codes per §6: 0 success, 1 file-not-found/IO, 2 cycle or overlap, 3
// malformed arguments.
const (
	exitOK = iota
	exitIOError
	exitStructuralError
	exitUsageError
)

func exitCodeFor(err error) int {
	switch {
	case ferr.Is(err, ferr.FileNotFound):
		return exitIOError
	case ferr.Is(err, ferr.ImportCycle), ferr.Is(err, ferr.OverlappingMatches), ferr.Is(err, ferr.SkipMismatch):
		return exitStructuralError
	default:
		return exitIOError
	}
}
