package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) inside a single file. Every
// emitted Lua node carries the span of its TSL origin, and the hoister
// orders reference sites against declaration sites by comparing spans.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// StartsBefore reports whether s begins before other in the same file.
// Spans from different files never order; the transformer only compares
// positions within the file being lowered.
func (s Span) StartsBefore(other Span) bool {
	return s.File == other.File && s.Start < other.Start
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(off uint32) bool {
	return off >= s.Start && off < s.End
}

// Cover extends the span to include other. Spans from different files are
// left untouched.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}
