package source

import (
	"fmt"

	"fortio.org/safecast"
)

// FileID names an input known to the caller: a batch file, a manifest, an
// inline query. The core never interprets it.
type FileID uint32

// Span is the site of a diagnostic. Producers decide what the offsets
// count: byte offsets for parsed type expressions, line numbers for
// line-oriented inputs (see LineSpan).
type Span struct {
	File  FileID
	Start uint32
	End   uint32 // exclusive for byte ranges; equal to Start for lines
}

// LineSpan marks a whole line of a line-oriented input. Negative or
// oversized line numbers collapse to line 0.
func LineSpan(file FileID, line int) Span {
	n, err := safecast.Conv[uint32](line)
	if err != nil {
		n = 0
	}
	return Span{File: file, Start: n, End: n}
}

// Less orders spans by file, then start, then end.
func (s Span) Less(o Span) bool {
	if s.File != o.File {
		return s.File < o.File
	}
	if s.Start != o.Start {
		return s.Start < o.Start
	}
	return s.End < o.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens s to include other. Spans of different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}
