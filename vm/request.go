package vm

// InputRequest is the one-shot permission to feed a value to a machine that
// stopped at an input instruction. It records the machine's step counter at
// issue time; supplying it after the machine has moved on fails with a
// ProtocolError.
//
// Dropping a request is harmless: the next Step re-decodes the same input
// instruction and issues a new one.
type InputRequest struct {
	machine  *Machine
	issuedAt uint64
	addr     int64
	length   int64
}

// Address returns the memory cell the supplied value will be written to.
func (r *InputRequest) Address() int64 { return r.addr }

// Supply writes v to the requested address and moves the machine past the
// input instruction. A request can be supplied at most once.
func (r *InputRequest) Supply(v int64) error {
	return r.machine.supply(r, v)
}

// Provide supplies a request issued by this machine. It is equivalent to
// r.Supply(v) but also rejects requests issued by another machine, such as
// the original a clone was made from.
func (m *Machine) Provide(r *InputRequest, v int64) error {
	if r.machine != m {
		return &ProtocolError{IssuedAt: r.issuedAt, Current: m.steps, Err: ErrForeignRequest}
	}
	return m.supply(r, v)
}

func (m *Machine) supply(r *InputRequest, v int64) error {
	if m.halted || r.issuedAt != m.steps {
		return &ProtocolError{IssuedAt: r.issuedAt, Current: m.steps, Err: ErrStaleRequest}
	}
	m.mem.Set(int(r.addr), v)
	m.advance(r.length)
	return nil
}
