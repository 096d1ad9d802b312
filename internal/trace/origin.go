// Package trace implements the provenance-preserving string on which the
// rewriting engine operates: TraceableString, a string-like value whose
// content is annotated, run-length encoded, with the (source, offset) pair
// each byte originated from.
package trace

// Origin is an immutable record mapping the half-open range [Begin, End) of
// a TraceableString's content to a run of bytes starting at Offset in
// Source. A nil Source denotes "generated" (⊥): text injected by a rule
// that has no authoring source, such as the body of a macro expansion.
type Origin struct {
	Begin, End int
	Source     *string
	Offset     int
}

// Len returns the number of bytes this segment covers.
func (o Origin) Len() int {
	return o.End - o.Begin
}

// Generated reports whether this segment has no authoring source.
func (o Origin) Generated() bool {
	return o.Source == nil
}

// SourceID returns the source identifier, or "" if the segment is generated.
func (o Origin) SourceID() string {
	if o.Source == nil {
		return ""
	}
	return *o.Source
}

// Src returns a non-nil *string suitable for use as an Origin.Source (pass
// nil directly for the generated source). It exists so call sites don't need
// to take the address of a string literal by hand.
func Src(id string) *string {
	return &id
}

func sameSource(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// mergeable reports whether two adjacent segments satisfy the merge rule of
// the data model: same source, and contiguous offsets.
func mergeable(s, t Origin) bool {
	if !sameSource(s.Source, t.Source) {
		return false
	}
	return s.Offset+s.Len() == t.Offset
}

// normalize drops zero-length segments and coalesces adjacent mergeable
// segments, keeping the segment list in its minimal, canonical form
// (invariants 3 and 4 of the data model).
func normalize(segs []Origin) []Origin {
	out := make([]Origin, 0, len(segs))
	for _, s := range segs {
		if s.Len() == 0 {
			continue
		}
		if n := len(out); n > 0 && mergeable(out[n-1], s) {
			out[n-1].End = s.End
			continue
		}
		out = append(out, s)
	}
	return out
}
