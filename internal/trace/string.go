package trace

import (
	"sort"
	"sync"

	"github.com/dkrupke/flachtex/internal/ferr"
)

// TraceableString is a string-like sequence whose content carries an ordered
// list of Origin segments partitioning [0, len(content)). Every public
// operation returns a new value; a TraceableString is never mutated in
// place once constructed.
type TraceableString struct {
	content  string
	segments []Origin
	lines    *lineIndex
}

// lineIndex caches the byte offsets at which each line of content begins.
// It is computed lazily and shared by every TraceableString value derived
// from the content it was computed for (slicing/concatenation build a new
// lineIndex for the new content rather than mutating this one).
type lineIndex struct {
	once    sync.Once
	offsets []int
}

// FromSource returns a TraceableString whose entire content is attributed to
// one origin: source at the given offset. Pass a nil source for generated
// text.
func FromSource(content string, source *string, offset int) TraceableString {
	if len(content) == 0 {
		return TraceableString{content: "", segments: nil, lines: &lineIndex{}}
	}
	seg := Origin{Begin: 0, End: len(content), Source: source, Offset: offset}
	return TraceableString{content: content, segments: []Origin{seg}, lines: &lineIndex{}}
}

// fromSegments builds a TraceableString from already-normalized content and
// segments. Callers within this package must ensure segs partitions
// [0, len(content)) and is already coalesced; use newFromSegments for the
// general (non-normalized) case.
func fromSegments(content string, segs []Origin) TraceableString {
	return TraceableString{content: content, segments: segs, lines: &lineIndex{}}
}

// newFromSegments builds a TraceableString from raw, possibly non-minimal
// segments, normalizing them first.
func newFromSegments(content string, segs []Origin) TraceableString {
	return fromSegments(content, normalize(segs))
}

// Empty returns the zero-length TraceableString.
func Empty() TraceableString {
	return TraceableString{lines: &lineIndex{}}
}

// Len returns the number of bytes in the content.
func (t TraceableString) Len() int {
	return len(t.content)
}

// String returns the flat content.
func (t TraceableString) String() string {
	return t.content
}

// Segments returns the (read-only, by convention) list of origin segments.
func (t TraceableString) Segments() []Origin {
	return t.segments
}

// At returns the byte at index i.
func (t TraceableString) At(i int) (byte, error) {
	if i < 0 || i >= len(t.content) {
		return 0, ferr.New(ferr.IndexOutOfRange, nil, "index %d out of range [0,%d)", i, len(t.content))
	}
	return t.content[i], nil
}

// Slice returns the sub-TraceableString covering bytes [a, b), with segments
// clipped and re-based per the data model's slicing formula.
func (t TraceableString) Slice(a, b int) (TraceableString, error) {
	if a < 0 || b < a || b > len(t.content) {
		return TraceableString{}, ferr.New(ferr.IndexOutOfRange, nil, "slice [%d:%d) out of range for length %d", a, b, len(t.content))
	}
	content := t.content[a:b]
	segs := make([]Origin, 0, len(t.segments))
	for _, s := range t.segments {
		begin := s.Begin
		if begin < a {
			begin = a
		}
		end := s.End
		if end > b {
			end = b
		}
		if begin >= end {
			continue
		}
		segs = append(segs, Origin{
			Begin:  begin - a,
			End:    end - a,
			Source: s.Source,
			Offset: s.Offset + max0(a-s.Begin),
		})
	}
	return newFromSegments(content, segs), nil
}

func max0(x int) int {
	if x < 0 {
		return 0
	}
	return x
}

// Concat returns the concatenation of t and other, merging the segments at
// the seam when the merge rule holds.
func (t TraceableString) Concat(other TraceableString) TraceableString {
	if t.Len() == 0 {
		return other
	}
	if other.Len() == 0 {
		return t
	}
	content := t.content + other.content
	shift := len(t.content)
	segs := make([]Origin, 0, len(t.segments)+len(other.segments))
	segs = append(segs, t.segments...)
	for _, s := range other.segments {
		segs = append(segs, Origin{
			Begin:  s.Begin + shift,
			End:    s.End + shift,
			Source: s.Source,
			Offset: s.Offset,
		})
	}
	return newFromSegments(content, segs)
}

// Concat variadically joins zero or more traceable strings in order.
func Concat(parts ...TraceableString) TraceableString {
	out := Empty()
	for _, p := range parts {
		out = out.Concat(p)
	}
	return out
}

// GetOrigin resolves traceable index i to its (source, offset) origin.
// A generated origin returns ("", offset, true, nil) where the bool return
// indicates "generated"; callers typically only care about the string form.
func (t TraceableString) GetOrigin(i int) (source string, offset int, generated bool, err error) {
	if i < 0 || i >= len(t.content) {
		return "", 0, false, ferr.New(ferr.IndexOutOfRange, nil, "index %d out of range [0,%d)", i, len(t.content))
	}
	idx := sort.Search(len(t.segments), func(k int) bool {
		return t.segments[k].End > i
	})
	s := t.segments[idx]
	return s.SourceID(), s.Offset + (i - s.Begin), s.Generated(), nil
}

func (t *TraceableString) ensureLineIndex() {
	t.lines.once.Do(func() {
		offsets := []int{0}
		for i := 0; i < len(t.content); i++ {
			if t.content[i] == '\n' {
				offsets = append(offsets, i+1)
			}
		}
		t.lines.offsets = offsets
	})
}

// GetOriginOfLine resolves a zero-based (line, col) position to a byte
// index and delegates to GetOrigin. Line 0 is the first line; col 0 is the
// first byte of the line.
func (t TraceableString) GetOriginOfLine(line, col int) (source string, offset int, generated bool, err error) {
	t.ensureLineIndex()
	if line < 0 || line >= len(t.lines.offsets) {
		return "", 0, false, ferr.New(ferr.IndexOutOfRange, nil, "line %d out of range [0,%d)", line, len(t.lines.offsets))
	}
	idx := t.lines.offsets[line] + col
	return t.GetOrigin(idx)
}

// LineCol converts a flat byte index to a zero-based (line, col) pair. It is
// the inverse companion to GetOriginOfLine, useful when an error must be
// reported in line/column terms.
func (t TraceableString) LineCol(i int) (line, col int) {
	t.ensureLineIndex()
	offsets := t.lines.offsets
	idx := sort.Search(len(offsets), func(k int) bool { return offsets[k] > i }) - 1
	if idx < 0 {
		idx = 0
	}
	return idx, i - offsets[idx]
}
