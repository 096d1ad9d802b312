// Package present adapts the internal trace.Envelope wire shape to the CLI
// boundary's documented JSON envelope (§6), the way the teacher's
// internal/presentation package sits between ast values and the bytes a
// terminal or script consumes.
package present

import (
	"encoding/json"
	"io"

	"github.com/dkrupke/flachtex/internal/trace"
)

// Origin is one entry of the wire envelope's "origins" array. The field is
// named "origin" (singular) at the wire boundary even though the internal
// type calls the same concept "source" — §6 calls this out explicitly.
type Origin struct {
	Begin  int     `json:"begin"`
	End    int     `json:"end"`
	Origin *string `json:"origin"`
	Offset int     `json:"offset"`
}

// Envelope is the canonical --to_json output shape.
type Envelope struct {
	Content string            `json:"content"`
	Origins []Origin          `json:"origins"`
	Sources map[string]string `json:"sources,omitempty"`
}

// Options controls what Build attaches to the envelope beyond content and
// origins.
type Options struct {
	// Attach, when true, populates Sources with the raw content of every
	// source discovered during expansion (--attach).
	Attach bool
}

// Build converts a fully expanded traceable string (and, if attaching, its
// structure recorder) into the wire envelope.
func Build(ts trace.TraceableString, structure map[string]string, opts Options) Envelope {
	internal := ts.ToJSON()
	origins := make([]Origin, len(internal.Origins))
	for i, o := range internal.Origins {
		origins[i] = Origin{Begin: o.Begin, End: o.End, Origin: o.Source, Offset: o.Offset}
	}
	env := Envelope{Content: internal.Content, Origins: origins}
	if opts.Attach {
		env.Sources = structure
	}
	return env
}

// JSON writes v as indented JSON to w, in the manner of the teacher's
// presentation.JSON helper.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
