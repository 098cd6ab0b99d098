// Package source holds source-text registration and rune-offset spans.
//
// Grounded on natrix-compiler/src/src.rs from the original implementation:
// a process-wide registry of loaded source files, each identified by a
// dense ID, with span-to-line/column resolution for diagnostics.
package source

import (
	"fmt"
	"strings"
)

// ID identifies a single loaded source file within a Sources registry.
type ID int

// Span is a half-open rune range [Start, End) within the file identified
// by SourceID. Spans are copy-cheap and never drive control flow; they
// exist only to anchor diagnostics. (The original implementation counts
// in bytes; since the lexer here already works over a []rune buffer,
// this rewrite counts spans in runes instead of UTF-8 bytes, which keeps
// Span arithmetic and lexer position arithmetic in the same unit. See
// DESIGN.md.)
type Span struct {
	SourceID ID
	Start    int
	End      int
}

// Join returns the smallest span covering both s and other. Both must
// belong to the same source file.
func (s Span) Join(other Span) Span {
	span := s
	if other.Start < span.Start {
		span.Start = other.Start
	}
	if other.End > span.End {
		span.End = other.End
	}
	return span
}

type file struct {
	name        string
	runes       []rune
	lineOffsets []int // rune offset of the first rune of each line, 0-indexed
}

func newFile(name, text string) file {
	runes := []rune(text)
	offsets := []int{0}
	for i, r := range runes {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return file{name: name, runes: runes, lineOffsets: offsets}
}

// Sources is a registry of loaded source files, indexed by ID.
type Sources struct {
	files []file
}

// New creates an empty source registry.
func New() *Sources {
	return &Sources{}
}

// Add registers a new source file and returns its ID.
func (s *Sources) Add(name, text string) ID {
	s.files = append(s.files, newFile(name, text))
	return ID(len(s.files) - 1)
}

// Name returns the display name (typically a file path) for id.
func (s *Sources) Name(id ID) string {
	return s.files[id].name
}

// Text returns the full source text registered under id.
func (s *Sources) Text(id ID) string {
	return string(s.files[id].runes)
}

// LineCol converts a rune offset within id's text into a 1-based
// (line, column) pair.
func (s *Sources) LineCol(id ID, offset int) (line, col int) {
	f := s.files[id]
	// binary search for the line containing offset
	lo, hi := 0, len(f.lineOffsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineOffsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineStart := f.lineOffsets[lo]
	col = 1 + (offset - lineStart)
	return lo + 1, col
}

// Line returns the text of the given 1-based line number, without its
// trailing newline.
func (s *Sources) Line(id ID, line int) string {
	f := s.files[id]
	idx := line - 1
	if idx < 0 || idx >= len(f.lineOffsets) {
		return ""
	}
	start := f.lineOffsets[idx]
	end := len(f.runes)
	if idx+1 < len(f.lineOffsets) {
		end = f.lineOffsets[idx+1] - 1
	}
	return strings.TrimRight(string(f.runes[start:end]), "\r")
}

// StartPos and EndPos report the (line, col) of a span's start and end.
func (s *Sources) StartPos(span Span) (line, col int) {
	return s.LineCol(span.SourceID, span.Start)
}

func (s *Sources) EndPos(span Span) (line, col int) {
	return s.LineCol(span.SourceID, span.End)
}

// FormatSpan renders "name:line:col: error: message" followed by the
// offending source line and a caret underline sized to span, the
// layout shared by sourceerr.Error.Display and rterr.Error.Display so
// compile-time and run-time diagnostics look identical to the user.
func (s *Sources) FormatSpan(span Span, message string) string {
	var b strings.Builder
	name := s.Name(span.SourceID)
	sline, scol := s.StartPos(span)
	eline, ecol := s.EndPos(span)
	fmt.Fprintf(&b, "%s:%d:%d: error: %s", name, sline, scol, message)

	text := s.Line(span.SourceID, sline)
	if strings.TrimSpace(text) == "" {
		return b.String()
	}

	var count int
	if eline == sline {
		if ecol <= scol {
			count = 1
		} else {
			count = ecol - scol
		}
	} else {
		count = len([]rune(text)) - scol + 1
	}
	if count < 1 {
		count = 1
	}
	fmt.Fprintf(&b, "\n%s\n%s%s", text, strings.Repeat(" ", scol-1), strings.Repeat("^", count))
	return b.String()
}
