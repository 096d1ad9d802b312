// Package ferr defines the error vocabulary shared by every stage of the
// traceable rewriting engine, mirroring the structured *ast.Error / ast.Errors
// pattern used throughout the Rego compiler: a small error kind, an optional
// source position, and a message, collected into an aggregate that renders
// all of its members on Error().
package ferr

import (
	"fmt"
	"strings"
)

// Kind classifies an error raised by the trace/rules/rewrite/finder/expand
// stages. These correspond 1:1 to the error kinds of the design.
type Kind int

const (
	// FileNotFound indicates the file finder exhausted its resolution order.
	FileNotFound Kind = iota
	// ImportCycle indicates the import expander found a source already on
	// the ancestor stack.
	ImportCycle
	// OverlappingMatches indicates two rule matches over the same input
	// overlap.
	OverlappingMatches
	// MalformedEnvelope indicates a JSON envelope failed to re-establish the
	// traceable string invariants on decode.
	MalformedEnvelope
	// IndexOutOfRange indicates an out-of-bounds index or slice bound.
	IndexOutOfRange
	// MacroRecursionLimit indicates a \newcommand expansion exceeded the
	// configured recursion depth. Non-fatal: callers may choose to ignore it.
	MacroRecursionLimit
	// SkipMismatch indicates an unbalanced FLACHTEX-SKIP-START/STOP pair.
	SkipMismatch
)

func (k Kind) String() string {
	switch k {
	case FileNotFound:
		return "file_not_found"
	case ImportCycle:
		return "import_cycle"
	case OverlappingMatches:
		return "overlapping_matches"
	case MalformedEnvelope:
		return "malformed_envelope"
	case IndexOutOfRange:
		return "index_out_of_range"
	case MacroRecursionLimit:
		return "macro_recursion_limit"
	case SkipMismatch:
		return "skip_mismatch"
	default:
		return "unknown"
	}
}

// Position locates an error in a source document. It is deliberately not the
// same type as trace.Origin: a Position is zero-based line/column for human
// reporting, not a byte-run-length record.
type Position struct {
	Source string
	Line   int
	Col    int
}

func (p *Position) String() string {
	if p == nil {
		return ""
	}
	if p.Source != "" {
		return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Col)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Error is a single failure raised anywhere in the engine.
type Error struct {
	Kind     Kind
	Position *Position
	Message  string
}

// New returns a new Error with a formatted message.
func New(kind Kind, pos *Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Position: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Position == nil || e.Position.String() == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %v: %s", e.Position, e.Kind, e.Message)
}

// Is reports whether err is a *ferr.Error with the given Kind, so that
// callers can do `if ferr.Is(err, ferr.FileNotFound) { ... }` the way OPA
// callers use ast.IsError.
func Is(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	if es, ok := err.(Errors); ok {
		for _, e := range es {
			if e.Kind == kind {
				return true
			}
		}
	}
	return false
}

// Errors aggregates zero or more Error values raised during one operation.
type Errors []*Error

func (e Errors) Error() string {
	if len(e) == 0 {
		return "no error(s)"
	}
	if len(e) == 1 {
		return fmt.Sprintf("1 error occurred: %v", e[0])
	}
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n%s", len(e), strings.Join(parts, "\n"))
}
