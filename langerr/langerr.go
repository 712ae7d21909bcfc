// Package langerr defines the single tagged error type shared by every stage
// of the language pipeline: lexing, parsing, evaluation, and sheet
// propagation. Errors never panic the engine; they are values that get
// stored on a cell and read back by whatever referenced it.
package langerr

import "fmt"

// Error is a message-only error record. There are no sub-types: parse
// errors, name-resolution errors, type errors, arity errors, range errors,
// propagated errors, and the circular-dependency sentinel are all this one
// shape, distinguished only by their message text.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error from a literal message.
func New(message string) *Error {
	return &Error{Message: message}
}

// Newf builds an Error from a formatted message.
func Newf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Circular is the sentinel stamped on a cell found to be on a read cycle.
const Circular = "Circular dependency"
