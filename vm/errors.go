package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleRequest is returned when an input request is supplied after
	// the machine has advanced past the point it was issued at, including
	// a second supply of the same request.
	ErrStaleRequest = errors.New("input provided against a stale or already-consumed request")

	// ErrForeignRequest is returned when an input request is supplied to a
	// machine other than the one that issued it.
	ErrForeignRequest = errors.New("input request belongs to a different machine")

	// ErrImmediateWrite marks an instruction whose write target uses
	// immediate mode.
	ErrImmediateWrite = errors.New("immediate-mode write target")

	// ErrNegativeAddress marks an effective address, or jump target, below
	// zero.
	ErrNegativeAddress = errors.New("negative address")

	// ErrUnknownOpcode is raised by strict decoding only.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrUnknownMode marks a parameter mode digit outside 0..2.
	ErrUnknownMode = errors.New("unknown parameter mode")

	// ErrInputExhausted is returned by Run when the machine asks for more
	// input than was queued.
	ErrInputExhausted = errors.New("machine requested input but none is left")
)

// ParseError reports a program text token that is not an integer.
type ParseError struct {
	Position int    // 1-based token position
	Token    string // the offending substring, untrimmed
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse intcode op %d (%q) into an integer", e.Position, e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProtocolError reports misuse of an input request. It is a caller bug, not
// a data problem; a fresh request is obtained by calling Step again.
type ProtocolError struct {
	IssuedAt uint64 // step counter when the request was issued
	Current  uint64 // step counter at supply time
	Err      error
}

func (e *ProtocolError) Error() string {
	if errors.Is(e.Err, ErrStaleRequest) {
		return fmt.Sprintf("%v (issued at step %d, machine at step %d)", e.Err, e.IssuedAt, e.Current)
	}
	return e.Err.Error()
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// ValidationError reports an instruction the machine refuses to execute.
type ValidationError struct {
	PC    int64 // address of the instruction word
	Raw   int64 // the instruction word
	Param int   // 0-based parameter index, -1 if not parameter specific
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Param >= 0 {
		return fmt.Sprintf("invalid instruction %d at %d: parameter %d: %v", e.Raw, e.PC, e.Param+1, e.Err)
	}
	return fmt.Sprintf("invalid instruction %d at %d: %v", e.Raw, e.PC, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
