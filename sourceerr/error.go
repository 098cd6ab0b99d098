// Package sourceerr defines the compile-time error type shared by the
// parser, analyzer, and folder. The lexer and the bytecode assembler do
// not use it: they return plain errors without a span.
//
// Grounded on natrix-compiler/src/error.rs: a SourceError always carries
// the span of the offending source text, and renders with a file:line:col
// prefix followed by the source line and a caret underline.
package sourceerr

import (
	"fmt"

	"github.com/informatter/natrix/source"
)

// Error is a compile-stage failure anchored to a span in some source file.
type Error struct {
	Message string
	Span    source.Span
}

func (e *Error) Error() string {
	return e.Message
}

// New constructs a *Error with a formatted message.
func New(span source.Span, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Span: span}
}

// Display renders the error the way the original compiler's ErrorDisplay
// does: "name:line:col: error: message", followed by the source line and
// a caret underline sized to the span when the line is non-blank.
func (e *Error) Display(sources *source.Sources) string {
	return sources.FormatSpan(e.Span, e.Message)
}
