package flachtex

import (
	"github.com/dkrupke/flachtex/internal/rewrite"
	"github.com/dkrupke/flachtex/internal/rules"
	"github.com/dkrupke/flachtex/internal/trace"
)

// TraceableString is the provenance-preserving string every public
// operation of this package produces and consumes: len/str/slicing,
// get_origin, get_origin_of_line and to_json are all methods on this type
// (§6's "traceable-string accessors").
type TraceableString = trace.TraceableString

// Origin is one run-length provenance segment of a TraceableString.
type Origin = trace.Origin

// Envelope is the JSON-serializable form of a TraceableString, as produced
// by TraceableString.ToJSON and consumed by FromJSON.
type Envelope = trace.Envelope

// FromSource wraps content as a TraceableString wholly attributed to one
// source at the given offset. Pass a nil source for generated text.
func FromSource(content string, source *string, offset int) TraceableString {
	return trace.FromSource(content, source, offset)
}

// Src returns a *string suitable for FromSource's source argument.
func Src(id string) *string {
	return trace.Src(id)
}

// FromJSON is the library surface's from_json(): it reconstructs a
// TraceableString from its JSON envelope, re-validating the partition and
// no-zero-length invariants.
func FromJSON(env Envelope) (TraceableString, error) {
	return trace.FromJSON(env)
}

// RemoveComments is the library surface's remove_comments(ts) -> ts (C3):
// it strips every unescaped LaTeX comment run from ts, keeping the
// terminating newline, independent of the expand() pipeline's own
// --remove_comments wiring.
func RemoveComments(ts TraceableString) (TraceableString, error) {
	return rewrite.Skip(ts, rules.CommentStripper{})
}
