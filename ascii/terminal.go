// Package ascii adapts a machine to byte streams. Outputs in the ASCII range
// are written to a sink; anything else is handed back to the caller. Input
// is pulled from a source one byte at a time, only when the machine asks.
package ascii

import (
	"errors"
	"fmt"
	"io"

	"github.com/chazu/intcode/vm"
)

// MaxASCII is the largest output value treated as a character.
const MaxASCII = 127

// Terminal wraps a machine with a byte source and a byte sink.
type Terminal struct {
	machine *vm.Machine
	reader  io.Reader
	writer  io.Writer
	buf     [1]byte
}

// New returns a terminal driving m. reader may be nil for programs that
// never read input.
func New(m *vm.Machine, reader io.Reader, writer io.Writer) *Terminal {
	return &Terminal{machine: m, reader: reader, writer: writer}
}

// FromProgram loads program into a fresh machine and wraps it.
func FromProgram(program vm.Program, reader io.Reader, writer io.Writer, opts ...vm.Option) *Terminal {
	return New(vm.Load(program, opts...), reader, writer)
}

// Machine returns the wrapped machine.
func (t *Terminal) Machine() *vm.Machine { return t.machine }

// Step runs the machine until it emits a value outside the ASCII range
// (returned with ok set) or halts (ok false). Errors from the reader or
// writer stop the machine where it is; io.EOF from the reader while the
// machine waits for input is reported as io.ErrUnexpectedEOF.
func (t *Terminal) Step() (value int64, ok bool, err error) {
	for {
		out, err := t.machine.Step()
		if err != nil {
			return 0, false, err
		}
		switch out.Kind {
		case vm.Halted:
			return 0, false, nil
		case vm.Output:
			if out.Value < 0 || out.Value > MaxASCII {
				return out.Value, true, nil
			}
			t.buf[0] = byte(out.Value)
			if _, err := t.writer.Write(t.buf[:]); err != nil {
				return 0, false, fmt.Errorf("ascii: write: %w", err)
			}
		case vm.NeedsInput:
			b, err := t.readByte()
			if err != nil {
				return 0, false, err
			}
			if err := out.Request.Supply(int64(b)); err != nil {
				return 0, false, err
			}
		}
	}
}

// Run calls Step until the machine halts and returns every non-ASCII value
// it produced, in order.
func (t *Terminal) Run() ([]int64, error) {
	var results []int64
	for {
		v, ok, err := t.Step()
		if err != nil {
			return results, err
		}
		if !ok {
			return results, nil
		}
		results = append(results, v)
	}
}

func (t *Terminal) readByte() (byte, error) {
	if t.reader == nil {
		return 0, fmt.Errorf("ascii: machine requested input: %w", io.ErrUnexpectedEOF)
	}
	if _, err := io.ReadFull(t.reader, t.buf[:]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return 0, fmt.Errorf("ascii: read: %w", err)
	}
	return t.buf[0], nil
}
