package trace

import (
	"encoding/json"

	"github.com/dkrupke/flachtex/internal/ferr"
)

// OriginJSON is the library-level JSON shape of one Origin, per §4.1:
// {"begin","end","source","offset"}. The CLI wire envelope (internal/present)
// renames "source" to "origin" at the process boundary; the two are kept as
// distinct types so that library consumers and the CLI envelope can diverge
// without entangling this package with presentation concerns.
type OriginJSON struct {
	Begin  int     `json:"begin"`
	End    int     `json:"end"`
	Source *string `json:"source"`
	Offset int     `json:"offset"`
}

// Envelope is the library-level JSON object returned by ToJSON.
type Envelope struct {
	Content string       `json:"content"`
	Origins []OriginJSON `json:"origins"`
}

// ToJSON renders t as the envelope object of §4.1.
func (t TraceableString) ToJSON() Envelope {
	out := make([]OriginJSON, len(t.segments))
	for i, s := range t.segments {
		out[i] = OriginJSON{Begin: s.Begin, End: s.End, Source: s.Source, Offset: s.Offset}
	}
	return Envelope{Content: t.content, Origins: out}
}

// MarshalJSON lets a TraceableString be embedded directly in a larger
// json.Marshal call, in addition to the explicit ToJSON accessor.
func (t TraceableString) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToJSON())
}

// FromJSON reconstructs a TraceableString from an Envelope, re-validating
// the partition and no-zero-length invariants. It fails with
// MalformedEnvelope if either does not hold. Offsets are not checked
// against any source content.
func FromJSON(env Envelope) (TraceableString, error) {
	segs := make([]Origin, len(env.Origins))
	expected := 0
	for i, o := range env.Origins {
		if o.Begin != expected {
			return TraceableString{}, ferr.New(ferr.MalformedEnvelope, nil,
				"origin %d begins at %d, expected %d (segments must partition [0,len) in order)", i, o.Begin, expected)
		}
		if o.End <= o.Begin {
			return TraceableString{}, ferr.New(ferr.MalformedEnvelope, nil,
				"origin %d has non-positive length [%d,%d)", i, o.Begin, o.End)
		}
		segs[i] = Origin{Begin: o.Begin, End: o.End, Source: o.Source, Offset: o.Offset}
		expected = o.End
	}
	if expected != len(env.Content) {
		return TraceableString{}, ferr.New(ferr.MalformedEnvelope, nil,
			"origins cover [0,%d) but content has length %d", expected, len(env.Content))
	}
	return fromSegments(env.Content, segs), nil
}
