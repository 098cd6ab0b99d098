// Package rterr defines the runtime error type surfaced by value
// operations and the virtual machine.
//
// Grounded on natrix-runtime/src/nx_err.rs (the bare, span-less runtime
// error used deep in value operations) and natrix-compiler/src/error.rs's
// AttachErrSpan trait (a span is attached once the error bubbles up to a
// context that has one, here the VM's current instruction).
package rterr

import (
	"fmt"

	"github.com/informatter/natrix/source"
)

// Error is a runtime failure. Span is the zero Span until the VM
// attaches the span of the instruction that was executing when the
// error occurred.
type Error struct {
	Message string
	Span    source.Span
	hasSpan bool
}

func (e *Error) Error() string {
	return e.Message
}

// New constructs an *Error with a formatted message and no span.
func New(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// WithSpan returns a copy of e carrying span, used by the VM to attach
// the location of the instruction currently executing.
func (e *Error) WithSpan(span source.Span) *Error {
	cp := *e
	cp.Span = span
	cp.hasSpan = true
	return &cp
}

// HasSpan reports whether a span has been attached.
func (e *Error) HasSpan() bool {
	return e.hasSpan
}

// Display renders e the same way sourceerr.Error does (file:line:col,
// the message, a caret underline), or just the bare message if no span
// was ever attached (a runtime error raised before the VM could locate
// the failing instruction).
func (e *Error) Display(sources *source.Sources) string {
	if !e.hasSpan {
		return e.Message
	}
	return sources.FormatSpan(e.Span, e.Message)
}
