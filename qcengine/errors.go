package qcengine

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every fault is fatal to the enclosing run; callers match
// with errors.Is.
var (
	ErrResourceExceeded     = errors.New("resource exceeded")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrMalformedInstruction = errors.New("malformed instruction")
	ErrInvalidShots         = errors.New("invalid shot count")
)

// InstructionError records which instruction of a program faulted.
type InstructionError struct {
	Index int // position in the program
	Line  int // source line, 0 when the program was not parsed from text
	Op    Op
	Err   error
}

func (e *InstructionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("instruction %d (%s, line %d): %v", e.Index, e.Op, e.Line, e.Err)
	}
	return fmt.Sprintf("instruction %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *InstructionError) Unwrap() error { return e.Err }

// ParseError reports a statement the program parser could not accept.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
